package main

// Physical memory layout for qemu -machine virt, based on qemu's
// hw/riscv/virt.c:
//
// 00001000 -- boot ROM, provided by qemu
// 02000000 -- CLINT
// 0C000000 -- PLIC
// 10000000 -- uart0
// 10001000 -- virtio disk
// 80000000 -- boot ROM jumps here in machine mode; -kernel loads here
// unused RAM after 80000000.
//
// The kernel uses physical memory thus:
// 80000000 -- boot.s, then kernel text and data
// end      -- start of the page allocator's managed region
// PHYSTOP  -- end of RAM available to the kernel

const (
	UART0     = uintptr(0x10000000)
	UART0_IRQ = 10
)

const (
	VIRTIO0     = uintptr(0x10001000)
	VIRTIO0_IRQ = 1
)

// Core-local interruptor (CLINT), which contains the timer.
const (
	CLINT       = uintptr(0x2000000)
	CLINT_MTIME = CLINT + 0xBFF8
)

func CLINT_MTIMECMP(hartid int) uintptr { return CLINT + 0x4000 + 8*uintptr(hartid) }

// Platform-level interrupt controller (PLIC).
const (
	PLIC          = uintptr(0x0c000000)
	PLIC_PRIORITY = PLIC + 0x0
	PLIC_PENDING  = PLIC + 0x1000
)

func PLIC_MENABLE(hart int) uintptr   { return PLIC + 0x2000 + uintptr(hart)*0x100 }
func PLIC_SENABLE(hart int) uintptr   { return PLIC + 0x2080 + uintptr(hart)*0x100 }
func PLIC_MPRIORITY(hart int) uintptr { return PLIC + 0x200000 + uintptr(hart)*0x2000 }
func PLIC_SPRIORITY(hart int) uintptr { return PLIC + 0x201000 + uintptr(hart)*0x2000 }
func PLIC_MCLAIM(hart int) uintptr    { return PLIC + 0x200004 + uintptr(hart)*0x2000 }
func PLIC_SCLAIM(hart int) uintptr    { return PLIC + 0x201004 + uintptr(hart)*0x2000 }

// RAM available to the kernel runs from KERNBASE to PHYSTOP; the page
// allocator hands out everything from get_end() up to PHYSTOP.
const (
	KERNBASE = uintptr(0x80000000)
	PHYSTOP  = KERNBASE + 128*1024*1024
)
