package main

import "unsafe"

// CLINT timer glue, grounded on original_source/src/dev/timer.c: a
// per-hart mscratch table {mtimecmp_addr, interval, scratch0-2} used by
// the M-mode timer vector in boot.s to reprogram mtimecmp and forward
// the interrupt to S-mode without leaving machine mode.
type clintScratch struct {
	mtimecmpAddr uint64
	interval     uint64
	scratch      [3]uint64
}

var clintScratchTable [numHart]clintScratch

func clintInit() {
	now := readReg64(CLINT_MTIME)
	for h := 0; h < numHart; h++ {
		clintScratchTable[h].mtimecmpAddr = uint64(CLINT_MTIMECMP(h))
		clintScratchTable[h].interval = timerInterval
		writeReg64(CLINT_MTIMECMP(h), now+timerInterval)
	}
}

func clintHartInit(hart int) {
	w_mscratch(uintptr(unsafe.Pointer(&clintScratchTable[hart])))
	w_mie(r_mie() | mieMTIE)
}

func clintTicks() uint64 {
	return readReg64(CLINT_MTIME)
}

// clintHandleInterrupt reprograms this hart's mtimecmp for the next
// tick. Called from the S-mode dispatch path once the M-mode vector has
// already forwarded the interrupt -- timervec in boot.s already bumped
// mtimecmp by one interval before raising mip.STIP, so this sets it a
// second time off the now-current mtime rather than off that first
// bump. Harmless (the next tick just isn't measured from the exact
// instant the first bump landed) but worth knowing about before tuning
// timerInterval down toward the scheduling tick granularity.
func clintHandleInterrupt(hart uintptr) {
	h := int(hart)
	next := readReg64(CLINT_MTIME) + timerInterval
	writeReg64(CLINT_MTIMECMP(h), next)
}
