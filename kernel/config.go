package main

// Compile-time kernel tunables. No config-parsing library attaches
// here: everything is decided before the allocator exists to hold a
// parsed config in the first place (see SPEC_FULL.md A.3).
const (
	// physical page size and its log2, shared by the buddy allocator
	// and the page table walker.
	pageShift = 12
	pageSize  = uintptr(1) << pageShift

	// buddy allocator: number of order buckets, order 0..bucketCount-1,
	// largest block is 2^(bucketCount-1) pages.
	bucketCount = 9

	// slab allocator: block orders 2^4..2^11 bytes (16B..2KiB), above
	// which an allocation gets its own uniblock superblock.
	minBlockOrder = 4
	maxBlockOrder = pageShift - 1
	numBucket     = maxBlockOrder - minBlockOrder + 1

	sblockMagic = 0x9a548eed

	// scheduler quantum, in timer ticks.
	timeSlice = 10000

	// CLINT timer interval, in mtime ticks between interrupts. QEMU
	// virt's CLINT runs at 10MHz, so this is a 1ms quantum tick.
	timerInterval = 10000

	// number of harts this kernel is built to support. Bring-up target
	// is a single hart; per-hart tables are sized by this constant
	// rather than hardcoded so the design stays sound if the boot path
	// is later extended to start additional harts.
	numHart = 1

	threadMagic = 0xcd6abf4b
)
