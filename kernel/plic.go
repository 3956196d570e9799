package main

// Platform-level interrupt controller glue, grounded on
// original_source/src/dev/plic.c: priority/enable/threshold registers
// per hart, and the claim/dispatch/complete protocol. Only UART0's IRQ
// is wired up, since it is the kernel's only external device.

func plicInit() {
	writeReg32(PLIC_PRIORITY+UART0_IRQ*4, 1)
}

func plicHartInit(hart int) {
	enable := readReg32(PLIC_SENABLE(hart))
	writeReg32(PLIC_SENABLE(hart), enable|(1<<UART0_IRQ))
	writeReg32(PLIC_SPRIORITY(hart), 0)
}

func plicClaim(hart int) int {
	return int(readReg32(PLIC_SCLAIM(hart)))
}

func plicComplete(hart int, irq int) {
	writeReg32(PLIC_SCLAIM(hart), uint32(irq))
}

func plicHandleInterrupt(hart int) {
	irq := plicClaim(hart)
	switch irq {
	case 0:
		// spurious claim, nothing pending
	case UART0_IRQ:
		uartHandleInterrupt()
	default:
		warn("plic: unexpected irq %d\n", irq)
	}
	if irq != 0 {
		plicComplete(hart, irq)
	}
}
