package main

import (
	"runtime"
	"testing"
	"unsafe"
)

// hostBackedRegion allocates real, writable host memory to stand in for
// a physical page range: pmmInitRegion's free lists thread listElem
// nodes directly through the first bytes of each page, so the base
// address has to point at memory that actually exists. The returned
// slice must be kept alive (via runtime.KeepAlive) for as long as the
// pmm package state derived from it is still in use, since a uintptr
// alone doesn't keep the backing array from being collected.
func hostBackedRegion(pages int) []byte {
	return make([]byte, pages*int(pageSize))
}

func TestOrderForPages(t *testing.T) {
	cases := []struct {
		pages int
		want  int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
	}
	for _, c := range cases {
		if got := orderForPages(c.pages); got != c.want {
			t.Errorf("orderForPages(%d) = %d, want %d", c.pages, got, c.want)
		}
	}
}

func TestOrderForBytes(t *testing.T) {
	if got := orderForBytes(1); got != 0 {
		t.Errorf("orderForBytes(1) = %d, want 0", got)
	}
	if got := orderForBytes(pageSize); got != 0 {
		t.Errorf("orderForBytes(pageSize) = %d, want 0", got)
	}
	if got := orderForBytes(pageSize + 1); got != 1 {
		t.Errorf("orderForBytes(pageSize+1) = %d, want 1", got)
	}
}

// TestPmmGreedyDecomposition exercises pmmInitRegion's free-list setup
// directly (no locking involved -- allocPages/freePages themselves
// route through interrupt-disable primitives that only make sense
// running on real hardware in supervisor mode) against a host-memory-
// backed region, since pmmPushFree writes each free block's listElem
// through its page address.
func TestPmmGreedyDecomposition(t *testing.T) {
	region := hostBackedRegion(10)
	base := uintptr(unsafe.Pointer(&region[0]))
	pmmInitRegion(base, 10) // 10 pages: 8 + 2 = order 3 block + order 1 block

	total := 0
	for order := range pmm.freeList {
		l := &pmm.freeList[order]
		for e := listFront(l); e != nil; {
			total += 1 << order
			next := e.next
			if next == &l.head {
				break
			}
			e = next
		}
	}
	if total != 10 {
		t.Fatalf("free lists cover %d pages, want 10", total)
	}

	if listEmpty(&pmm.freeList[3]) {
		t.Errorf("expected an order-3 block from greedy decomposition of 10 pages")
	}
	if listEmpty(&pmm.freeList[1]) {
		t.Errorf("expected an order-1 block from greedy decomposition of 10 pages")
	}
	runtime.KeepAlive(region)
}

func TestPmmPushPopFree(t *testing.T) {
	region := hostBackedRegion(4)
	base := uintptr(unsafe.Pointer(&region[0]))
	pmmInitRegion(base, 4)

	// order-2 block covers all 4 pages initially.
	if listEmpty(&pmm.freeList[2]) {
		t.Fatalf("expected a single order-2 block for a 4-page region")
	}

	pn, ok := pmmPopFree(2)
	if !ok {
		t.Fatalf("pmmPopFree(2) failed")
	}
	if pn != 0 {
		t.Fatalf("pmmPopFree(2) = page %d, want 0", pn)
	}
	if !listEmpty(&pmm.freeList[2]) {
		t.Fatalf("freeList[2] should be empty after popping its only block")
	}

	pmmPushFree(0, 1)
	pmmPushFree(2, 1)
	if pmm.blockOrder[0] != 1 || pmm.blockOrder[2] != 1 {
		t.Fatalf("blockOrder not recorded for pushed free blocks")
	}

	pmmRemoveFree(2, 1)
	if pmm.blockOrder[2] != -1 {
		t.Fatalf("blockOrder should reset to -1 after pmmRemoveFree")
	}
	runtime.KeepAlive(region)
}
