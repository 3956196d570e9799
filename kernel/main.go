package main

import _ "unsafe"

// bootStacks gives each hart its own machine-mode boot stack before any
// allocator exists to hand one out.
var bootStacks [numHart][16384]byte

//go:linkname smainAddr smainAddr
func smainAddr() uintptr

//go:linkname timervecAddr timervecAddr
func timervecAddr() uintptr

// mstart runs in machine mode, on the boot stack _start just set up. It
// does everything that can only be done in machine mode -- exception/
// interrupt delegation, the M-mode timer vector, and this hart's CLINT
// scratch table -- then programs mepc/mstatus.MPP so the MRET that
// follows in boot.s drops into smain in supervisor mode.
func mstart() {
	hart := r_mhartid()

	w_medeleg(^uintptr(0))
	w_mideleg(^uintptr(0))

	w_mtvec(timervecAddr())
	clintInit()
	clintHartInit(int(hart))

	w_mstatus((r_mstatus() &^ mstatusMPPMask) | mstatusMPPS)
	w_mepc(smainAddr())
}

// smain is the supervisor-mode entry point, reached via the MRET in
// boot.s. It brings up the allocators, the page table, the scheduler,
// and the trap pipeline in dependency order, then falls into the idle
// thread.
//
//export smain
func smain() {
	uartInit()

	info("pmm init...\n")
	pmmInit()

	info("vmm init...\n")
	vmmInit()
	vmmInitHart()
	procVMInit()

	info("malloc init...\n")
	mallocInit()

	info("thread init...\n")
	threadInit()

	info("trap init...\n")
	trapInit()
	trapinithart()

	plicInit()
	plicHartInit(int(r_mhartid()))

	info("boot complete\n")
	intr_on()
	idleLoop()
}

func main() {}
