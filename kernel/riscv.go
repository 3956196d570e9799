package main

import _ "unsafe"

// RISC-V privileged-architecture constants and CSR accessors, grounded
// on original_source/include/riscv.h. Every accessor below is declared
// with no body and //go:linkname, backed by a real Plan 9 assembly
// implementation in asm_riscv64.s, in the same style the teacher uses
// for sync_test_and_set/sync_barrier/swtch.

const maxVA = uintptr(1) << 38 // one bit less than the full 39 to avoid sign-extension ambiguity

// page table entry permission bits
const (
	pteV = 1 << 0 // valid
	pteR = 1 << 1 // readable
	pteW = 1 << 2 // writable
	pteX = 1 << 3 // executable
	pteU = 1 << 4 // user-accessible
	pteG = 1 << 5 // global mapping
	pteA = 1 << 6 // accessed
	pteD = 1 << 7 // dirty
)

// satp: supervisor address translation and protection
const satpModeSv39 = uintptr(8) << 60

func makeSatp(pagetable pagetableT) uintptr {
	return satpModeSv39 | (uintptr(pagetable) >> pageShift)
}

// mstatus, machine mode status register
const (
	mstatusMPPMask = uintptr(3) << 11
	mstatusMPPM    = uintptr(3) << 11
	mstatusMPPS    = uintptr(1) << 11
	mstatusMPPU    = uintptr(0) << 11
	mstatusMIE     = uintptr(1) << 3 // machine-mode interrupt enable
	mstatusMPIE    = uintptr(1) << 7
)

// sstatus, supervisor mode status register
const (
	sstatusSPP  = uintptr(1) << 8 // previous mode, 1=supervisor, 0=user
	sstatusSPIE = uintptr(1) << 5 // supervisor previous interrupt enable
	sstatusSIE  = uintptr(1) << 1 // supervisor interrupt enable
)

// machine-mode interrupt enable/pending bits
const (
	mieMEIE = uintptr(1) << 11
	mieMTIE = uintptr(1) << 7
	mieMSIE = uintptr(1) << 3
)

// supervisor-mode interrupt enable/pending bits
const (
	sieSEIE = uintptr(1) << 9
	sieSTIE = uintptr(1) << 5
	sieSSIE = uintptr(1) << 1
)

// scause top bit distinguishes an interrupt from an exception; the
// remaining bits are the interrupt/exception code.
const scauseInterruptBit = uintptr(1) << 63

// supervisor exception codes (scause, interrupt bit clear)
const (
	excInstAddrMisaligned  = 0
	excInstAccessFault     = 1
	excIllegalInst         = 2
	excBreakpoint          = 3
	excLoadAddrMisaligned  = 4
	excLoadAccessFault     = 5
	excStoreAddrMisaligned = 6
	excStoreAccessFault    = 7
	excEcallFromU          = 8
	excEcallFromS          = 9
	excInstPageFault       = 12
	excLoadPageFault       = 13
	excStorePageFault      = 15
)

// supervisor interrupt codes (scause, interrupt bit set)
const (
	intSSI = 1 // supervisor software interrupt
	intSTI = 5 // supervisor timer interrupt
	intSEI = 9 // supervisor external interrupt
)

type pteT uintptr
type pagetableT uintptr

func vpn(level int, va uintptr) uintptr {
	return (va >> (pageShift + uintptr(level)*9)) & 0x1FF
}

func pte2pa(pte pteT) uintptr {
	return (uintptr(pte) >> 10) << pageShift
}

func pa2pte(pa uintptr) pteT {
	return pteT((pa >> pageShift) << 10)
}

func pageRoundDown(a uintptr) uintptr {
	return a &^ (pageSize - 1)
}

func pageRoundUp(a uintptr) uintptr {
	return (a + pageSize - 1) &^ (pageSize - 1)
}

//go:linkname r_mhartid r_mhartid
func r_mhartid() uintptr

//go:linkname r_mstatus r_mstatus
func r_mstatus() uintptr

//go:linkname w_mstatus w_mstatus
func w_mstatus(x uintptr)

//go:linkname w_mepc w_mepc
func w_mepc(x uintptr)

//go:linkname r_sstatus r_sstatus
func r_sstatus() uintptr

//go:linkname w_sstatus w_sstatus
func w_sstatus(x uintptr)

//go:linkname r_sip r_sip
func r_sip() uintptr

//go:linkname w_sip w_sip
func w_sip(x uintptr)

//go:linkname r_sie r_sie
func r_sie() uintptr

//go:linkname w_sie w_sie
func w_sie(x uintptr)

//go:linkname r_mie r_mie
func r_mie() uintptr

//go:linkname w_mie w_mie
func w_mie(x uintptr)

//go:linkname w_medeleg w_medeleg
func w_medeleg(x uintptr)

//go:linkname w_mideleg w_mideleg
func w_mideleg(x uintptr)

//go:linkname r_sepc r_sepc
func r_sepc() uintptr

//go:linkname w_sepc w_sepc
func w_sepc(x uintptr)

//go:linkname r_scause r_scause
func r_scause() uintptr

//go:linkname r_stval r_stval
func r_stval() uintptr

//go:linkname w_stvec w_stvec
func w_stvec(x uintptr)

//go:linkname w_mtvec w_mtvec
func w_mtvec(x uintptr)

//go:linkname w_satp w_satp
func w_satp(x uintptr)

//go:linkname r_satp r_satp
func r_satp() uintptr

//go:linkname w_mscratch w_mscratch
func w_mscratch(x uintptr)

//go:linkname w_sscratch w_sscratch
func w_sscratch(x uintptr)

//go:linkname r_sscratch r_sscratch
func r_sscratch() uintptr

//go:linkname r_sp r_sp
func r_sp() uintptr

//go:linkname r_tp r_tp
func r_tp() uintptr

//go:linkname w_tp w_tp
func w_tp(x uintptr)

// intr_off/intr_on toggle sstatus.SIE directly. Nested save/restore
// discipline (intr_disable/intr_set_state) lives in interrupt.go, built
// on top of these.
func intr_off() {
	w_sstatus(r_sstatus() &^ sstatusSIE)
}

func intr_on() {
	w_sstatus(r_sstatus() | sstatusSIE)
}

func intr_get() bool {
	return r_sstatus()&sstatusSIE != 0
}
