package main

import "unsafe"

// Slab/bucket dynamic allocator, grounded on
// original_source/include/mm/malloc.h and src/mm/malloc.c. Small
// requests (up to 2^maxBlockOrder bytes, i.e. 2 KiB) are carved out of
// one-page multiblock superblocks; anything bigger gets its own
// uniblock superblock: a 2^order-page run allocated straight from the
// buddy allocator, with order the smallest that covers the header plus
// the request. Both kinds start with a
// magic-validated header so free() can identify what it's holding
// without the caller telling it the size back.

const (
	sblockMultiblock = 1
	sblockUniblock   = 2
)

type sblockHeader struct {
	magic     uint32
	kind      uint8
	bucket    int8
	order     int8
	_         int8
	blockSize uintptr
	link      listElem // linkage into the owning bucket's superblock list
	free      list      // free blocks within this superblock (multiblock only)
	freeCount int
}

var sblockLinkOffset = unsafe.Offsetof(sblockHeader{}.link)

type bucketState struct {
	lock        lockT
	blockSize   uintptr
	superblocks list
}

var buckets [numBucket]bucketState

func mallocInit() {
	for i := range buckets {
		buckets[i].blockSize = uintptr(1) << (minBlockOrder + i)
		lockInit(&buckets[i].lock)
		listInit(&buckets[i].superblocks)
	}
}

func bucketIndexForSize(n uintptr) int {
	for i := range buckets {
		if buckets[i].blockSize >= n {
			return i
		}
	}
	return -1
}

func headerReserve(blockSize uintptr) uintptr {
	sz := unsafe.Sizeof(sblockHeader{})
	return (sz + blockSize - 1) &^ (blockSize - 1)
}

// newMultiblock carves a fresh page into blockSize blocks for bucket b
// and pushes it onto the bucket's superblock list, already containing
// the first free block.
func newMultiblock(b int) *sblockHeader {
	page := allocPages(0)
	if page == 0 {
		return nil
	}
	blockSize := buckets[b].blockSize
	reserve := headerReserve(blockSize)

	hdr := (*sblockHeader)(unsafe.Pointer(page))
	hdr.magic = sblockMagic
	hdr.kind = sblockMultiblock
	hdr.bucket = int8(b)
	hdr.blockSize = blockSize
	listInit(&hdr.free)

	for addr := page + reserve; addr+blockSize <= page+pageSize; addr += blockSize {
		listPushBack(&hdr.free, (*listElem)(unsafe.Pointer(addr)))
		hdr.freeCount++
	}

	listPushBack(&buckets[b].superblocks, &hdr.link)
	return hdr
}

// malloc returns a pointer to at least n bytes, or 0 if the allocator
// is out of memory. Requests larger than the biggest bucket size get a
// dedicated uniblock superblock instead of being carved from one.
func malloc(n uintptr) uintptr {
	if n == 0 {
		return 0
	}

	b := bucketIndexForSize(n)
	if b < 0 {
		return uniblockAlloc(n)
	}

	bk := &buckets[b]
	lockAcquire(&bk.lock)
	defer lockRelease(&bk.lock)

	var hdr *sblockHeader
	for e := listFront(&bk.superblocks); e != nil; e = e.next {
		if e == &bk.superblocks.head {
			break
		}
		h := listEntry[sblockHeader](e, sblockLinkOffset)
		if !listEmpty(&h.free) {
			hdr = h
			break
		}
	}
	if hdr == nil {
		hdr = newMultiblock(b)
		if hdr == nil {
			return 0
		}
	}

	block := listPopFront(&hdr.free)
	hdr.freeCount--
	return uintptr(unsafe.Pointer(block))
}

func uniblockAlloc(n uintptr) uintptr {
	// Unlike a multiblock's reserve, this must NOT be rounded up to
	// pageSize: the data pointer has to stay inside the header's own
	// page so free/blockSizeOf can find the header again via
	// pageRoundDown. Matches the original's "sb + 1" -- data starts
	// right after the header struct, nothing more.
	reserve := unsafe.Sizeof(sblockHeader{})
	total := n + reserve
	order := orderForBytes(total)
	page := allocPages(order)
	if page == 0 {
		return 0
	}

	hdr := (*sblockHeader)(unsafe.Pointer(page))
	hdr.magic = sblockMagic
	hdr.kind = sblockUniblock
	hdr.order = int8(order)

	return page + reserve
}

// free returns a block obtained from malloc. It locates the owning
// superblock header by rounding the pointer down to its page (or its
// order-sized block, for a uniblock) and validates the magic before
// touching anything, since a stray free() with a bad pointer must not
// corrupt allocator state.
func free(ptr uintptr) {
	if ptr == 0 {
		return
	}

	// try the multiblock case: header lives at the start of ptr's page.
	page := pageRoundDown(ptr)
	hdr := (*sblockHeader)(unsafe.Pointer(page))
	if hdr.magic == sblockMagic && hdr.kind == sblockMultiblock {
		b := int(hdr.bucket)
		bk := &buckets[b]
		lockAcquire(&bk.lock)
		listPushFront(&hdr.free, (*listElem)(unsafe.Pointer(ptr)))
		hdr.freeCount++
		if hdr.freeCount*int(hdr.blockSize)+int(headerReserve(hdr.blockSize)) >= int(pageSize) {
			listRemove(&bk.superblocks, &hdr.link)
			lockRelease(&bk.lock)
			freePages(page, 0)
			return
		}
		lockRelease(&bk.lock)
		return
	}

	// otherwise it must be a uniblock: its header sits at the start of
	// the order-sized block it was carved from.
	assert(hdr.magic == sblockMagic && hdr.kind == sblockUniblock, "malloc.go", 0, "free", "corrupt or foreign pointer")
	freePages(page, int(hdr.order))
}

// calloc allocates space for num elements of size bytes each, zeroed.
// Returns 0 on overflow of num*size as well as on ordinary
// out-of-memory, since a wrapped product would under-allocate silently.
func calloc(num, size uintptr) uintptr {
	if num != 0 && size > (^uintptr(0))/num {
		return 0
	}
	n := num * size

	p := malloc(n)
	if p == 0 {
		return 0
	}
	memset(p, 0, uint(n))
	return p
}

// realloc grows or shrinks an allocation, copying the smaller of the
// old block's usable size and the newly requested size. It always allocates fresh and frees the
// old block rather than trying to grow a multiblock allocation in
// place, since blocks in the same bucket are all the same size.
func realloc(ptr uintptr, n uintptr) uintptr {
	if ptr == 0 {
		return malloc(n)
	}
	if n == 0 {
		free(ptr)
		return 0
	}

	oldSize := blockSizeOf(ptr)
	np := malloc(n)
	if np == 0 {
		return 0
	}
	copySize := oldSize
	if n < copySize {
		copySize = n
	}
	memcpy(np, ptr, uint(copySize))
	free(ptr)
	return np
}

func blockSizeOf(ptr uintptr) uintptr {
	page := pageRoundDown(ptr)
	hdr := (*sblockHeader)(unsafe.Pointer(page))
	if hdr.magic == sblockMagic && hdr.kind == sblockMultiblock {
		return hdr.blockSize
	}
	return (uintptr(1)<<uint(hdr.order))*pageSize - unsafe.Sizeof(sblockHeader{})
}
