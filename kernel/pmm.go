package main

import "unsafe"

// Binary buddy physical page allocator, grounded on
// original_source/src/mm/pmm.c and include/mm/pmm.h. Free blocks are
// tracked two ways: a per-order intrusive free list (the block's first
// bytes double as its listElem, exactly like the teacher's kalloc.go
// "run" trick) and a bitmap recording, at page granularity, whether a
// page is currently handed out. A parallel blockOrder table records the
// order of the free block headed at a given page, needed so a buddy
// merge only fires when the buddy is free AND currently the same size.
//
// original_source leaves this structure unsynchronized under a
// single-hart assumption; pmm.lock (adapted from the teacher's
// spinlock.go) is the guard that keeps it sound if more harts start.

type pmmState struct {
	lock       spinlock
	base       uintptr // first managed physical page
	pages      int
	used       bitmap
	blockOrder []int8 // order of the free block headed at page i, -1 if not a free head
	freeList   [bucketCount]list
}

var pmm pmmState

func pmmInit() {
	start := pageRoundUp(get_end())
	end := pageRoundDown(PHYSTOP)
	pages := int((end - start) / pageSize)
	info("pmm: managing %d pages from %x\n", pages, start)
	pmmInitRegion(start, pages)
}

// pmmInitRegion sets up the allocator over an arbitrary page-aligned
// region, factored out of pmmInit so tests can back the allocator with
// ordinary host memory instead of the real physical address range.
func pmmInitRegion(base uintptr, pages int) {
	initlock(&pmm.lock)

	pmm.base = base
	pmm.pages = pages

	pmm.used = newBitmap(pmm.pages)
	pmm.blockOrder = make([]int8, pmm.pages)
	for i := range pmm.blockOrder {
		pmm.blockOrder[i] = -1
	}
	for o := range pmm.freeList {
		listInit(&pmm.freeList[o])
	}

	// Greedily decompose the whole region into the largest aligned
	// power-of-two blocks that fit, biggest order first.
	pn := 0
	for pn < pmm.pages {
		order := bucketCount - 1
		for order > 0 {
			blockPages := 1 << order
			if pn%blockPages == 0 && pn+blockPages <= pmm.pages {
				break
			}
			order--
		}
		pmmPushFree(pn, order)
		pn += 1 << order
	}
}

func pmmPageAddr(pn int) uintptr { return pmm.base + uintptr(pn)*pageSize }
func pmmPageNum(addr uintptr) int { return int((addr - pmm.base) / pageSize) }

func pmmPushFree(pn, order int) {
	e := (*listElem)(unsafe.Pointer(pmmPageAddr(pn)))
	pmm.blockOrder[pn] = int8(order)
	listPushBack(&pmm.freeList[order], e)
}

func pmmPopFree(order int) (int, bool) {
	e := listPopFront(&pmm.freeList[order])
	if e == nil {
		return 0, false
	}
	pn := pmmPageNum(uintptr(unsafe.Pointer(e)))
	pmm.blockOrder[pn] = -1
	return pn, true
}

func pmmRemoveFree(pn, order int) {
	e := (*listElem)(unsafe.Pointer(pmmPageAddr(pn)))
	listRemove(&pmm.freeList[order], e)
	pmm.blockOrder[pn] = -1
}

// allocPages returns the physical address of a free 2^order-page block,
// or 0 if none is available.
func allocPages(order int) uintptr {
	if order < 0 || order >= bucketCount {
		return 0
	}

	acquire(&pmm.lock)
	defer release(&pmm.lock)

	found := order
	for found < bucketCount && listEmpty(&pmm.freeList[found]) {
		found++
	}
	if found == bucketCount {
		return 0
	}

	pn, _ := pmmPopFree(found)

	// split down to the requested order, pushing each buddy half back
	// onto its own free list.
	for found > order {
		found--
		buddyPn := pn + (1 << found)
		pmmPushFree(buddyPn, found)
	}

	pmm.used.setRange(pn, 1<<order)
	return pmmPageAddr(pn)
}

// freePages returns a 2^order-page block to the allocator, coalescing
// with its buddy iteratively while the buddy is free and the same
// order.
func freePages(addr uintptr, order int) {
	if addr == 0 {
		return
	}

	acquire(&pmm.lock)
	defer release(&pmm.lock)

	pn := pmmPageNum(addr)
	pmm.used.clearRange(pn, 1<<order)

	for order < bucketCount-1 {
		buddyPn := pn ^ (1 << order)
		if buddyPn < 0 || buddyPn+((1<<order)) > pmm.pages {
			break
		}
		if pmm.blockOrder[buddyPn] != int8(order) {
			break
		}
		pmmRemoveFree(buddyPn, order)
		if buddyPn < pn {
			pn = buddyPn
		}
		order++
	}

	pmmPushFree(pn, order)
}

// orderForPages returns the smallest order whose block size covers n
// pages.
func orderForPages(n int) int {
	order := 0
	for (1 << order) < n {
		order++
	}
	return order
}

// orderForBytes returns the smallest order whose block size covers n
// bytes, at page granularity.
func orderForBytes(n uintptr) int {
	pages := (n + pageSize - 1) / pageSize
	return orderForPages(int(pages))
}
