package main

import "unsafe"

// Sv39 page table management, grounded on
// original_source/include/mm/vmm.h and src/mm/vmm.c, cross-checked
// against the teacher's own vm.go (walk/mappages/kvmmap survive here as
// walk/mapRange/kernelMap). Implements both of the spec's documented
// fixes to the original: unmapPage is detach-only (never reads *pte
// after clearing it, never frees the underlying frame), and
// kernelWalk returns its result (the original's walk(...) call with no
// return statement is not reproduced).

var kernelPagetable pagetableT

//go:linkname sfenceVMA sfenceVMA
func sfenceVMA()

func vmmInit() {
	pa := allocPages(0)
	if pa == 0 {
		kernelPanic("vmm.go", 0, "vmmInit", "out of memory for root page table")
	}
	kernelPagetable = pagetableT(pa)
	memset(pa, 0, uint(pageSize))

	kernelMap(UART0, UART0, pageSize, pteR|pteW)
	kernelMap(VIRTIO0, VIRTIO0, pageSize, pteR|pteW)
	kernelMap(PLIC, PLIC, 0x400000, pteR|pteW)
	kernelMap(CLINT, CLINT, 0x10000, pteR|pteW)

	et := get_etext()
	kernelMap(KERNBASE, KERNBASE, et-KERNBASE, pteR|pteX)
	kernelMap(et, et, PHYSTOP-et, pteR|pteW)

	info("vmm: kernel page table at %x\n", uintptr(kernelPagetable))
}

func vmmInitHart() {
	sfenceVMA()
	w_satp(makeSatp(kernelPagetable))
	sfenceVMA()
}

// walk returns a pointer to the level-0 PTE for va in pagetable,
// allocating intermediate page-table pages on demand when alloc is
// true. Returns nil if va is out of range or an intermediate page
// table page could not be allocated.
func walk(pagetable pagetableT, va uintptr, alloc bool) *pteT {
	if va >= maxVA {
		return nil
	}

	for level := 2; level > 0; level-- {
		idx := vpn(level, va)
		ptePtr := (*pteT)(unsafe.Pointer(uintptr(pagetable) + idx*8))

		if *ptePtr&pteV != 0 {
			pagetable = pagetableT(pte2pa(*ptePtr))
			continue
		}

		if !alloc {
			return nil
		}

		child := allocPages(0)
		if child == 0 {
			return nil
		}
		memset(child, 0, uint(pageSize))

		*ptePtr = pa2pte(child) | pteV
		pagetable = pagetableT(child)
	}

	idx0 := vpn(0, va)
	return (*pteT)(unsafe.Pointer(uintptr(pagetable) + idx0*8))
}

// kernelWalk looks up va in the kernel page table without allocating,
// returning the resolved physical address or 0 if unmapped.
func kernelWalk(va uintptr) uintptr {
	pte := walk(kernelPagetable, va, false)
	if pte == nil || *pte&pteV == 0 {
		return 0
	}
	return pte2pa(*pte) | (va & (pageSize - 1))
}

// mapPage installs a single leaf mapping. Returns false if the PTE
// already existed (remap) or a page table page could not be allocated.
func mapPage(pagetable pagetableT, va uintptr, pa uintptr, perm int) bool {
	pte := walk(pagetable, va, true)
	if pte == nil {
		return false
	}
	if *pte&pteV != 0 {
		return false
	}
	*pte = pa2pte(pa) | pteT(perm) | pteV
	return true
}

// mapRange maps [va, va+size) to [pa, pa+size) page by page.
func mapRange(pagetable pagetableT, va, pa, size uintptr, perm int) bool {
	a := pageRoundDown(va)
	last := pageRoundDown(va + size - 1)
	for {
		if !mapPage(pagetable, a, pa, perm) {
			return false
		}
		if a == last {
			return true
		}
		a += pageSize
		pa += pageSize
	}
}

func kernelMap(va, pa, size uintptr, perm int) {
	if !mapRange(kernelPagetable, va, pa, size, perm) {
		kernelPanic("vmm.go", 0, "kernelMap", "failed to map %x\n", va)
	}
}

// unmapPage detaches va's leaf mapping without touching the underlying
// frame. The caller owns the frame's lifetime; this never reads *pte
// after clearing it and never calls freePages.
func unmapPage(pagetable pagetableT, va uintptr) {
	pte := walk(pagetable, va, false)
	if pte == nil || *pte&pteV == 0 {
		return
	}
	*pte = 0
}
