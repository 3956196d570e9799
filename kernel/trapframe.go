package main

// TrapFrame is the fixed 544-byte, 16-byte-aligned per-hart save area
// for S-mode traps, grounded on original_source/include/trap/trap.h's
// trap_frame_t layout: 32 general-purpose registers, 32 floating point
// registers, then status/epc/tval/cause. kernelvec (trap_asm.s) fills in
// regs and Kerneltrap fills in status/epc/tval/cause; nothing saves or
// restores fregs, so floating point registers are not preserved across
// a trap.
type TrapFrame struct {
	regs  [32]uint64 // offsets 0-255
	fregs [32]uint64 // offsets 256-511
	status uint64     // offset 512
	epc    uint64     // offset 520
	tval   uint64     // offset 528
	cause  uint64     // offset 536
}

// register indices into TrapFrame.regs, named per the standard RISC-V
// ABI register roles.
const (
	regRA = 1
	regSP = 2
	regA0 = 10
)
