package main

import "unsafe"

// NS16550A UART driver, grounded on original_source/include/dev/uart.h
// and src/dev/uart.c. UART0 is the only external I/O surface this
// kernel drives.

const (
	uartRHR = 0 // receive holding register (read)
	uartTHR = 0 // transmit holding register (write)
	uartIER = 1 // interrupt enable register
	uartFCR = 2 // FIFO control register (write)
	uartISR = 2 // interrupt status register (read)
	uartLCR = 3 // line control register
	uartMCR = 4 // modem control register
	uartLSR = 5 // line status register
	uartMSR = 6 // modem status register
)

const (
	lsrRxReady = 1 << 0
	lsrTxIdle  = 1 << 5
)

const (
	ierRxEnable = 1 << 0
	ierTxEnable = 1 << 1

	fcrFIFOEnable = 1 << 0
	fcrFIFOClear  = 3 << 1

	lcrEightBits = 3 << 0
	lcrBaudLatch = 1 << 7
)

const uartClockHz = 22729000
const uartBaudRate = 115200

func uartReg(reg uintptr) *byte {
	return (*byte)(unsafe.Pointer(UART0 + reg))
}

func uartWrite(reg uintptr, v byte) {
	*uartReg(reg) = v
}

func uartRead(reg uintptr) byte {
	return *uartReg(reg)
}

func uartInit() {
	uartWrite(uartIER, 0)

	// set baud rate divisor
	uartWrite(uartLCR, lcrBaudLatch)
	divisor := uint16(uartClockHz / (16 * uartBaudRate))
	uartWrite(0, byte(divisor))
	uartWrite(1, byte(divisor>>8))

	uartWrite(uartLCR, lcrEightBits)
	uartWrite(uartFCR, fcrFIFOEnable|fcrFIFOClear)
	uartWrite(uartIER, ierRxEnable|ierTxEnable)
}

// uart_putc blocks until the transmit holding register is empty, then
// writes one byte. Named to match the teacher's original linkname so
// call sites elsewhere in the tree keep working unchanged.
func uart_putc(c byte) {
	for uartRead(uartLSR)&lsrTxIdle == 0 {
	}
	uartWrite(uartTHR, c)
}

// uart_getc returns a received byte and true, or false if none is
// waiting. The polling condition tests LSR.DR for "data ready" (bit
// set means a byte is present), matching NS16550A semantics.
func uart_getc() (byte, bool) {
	if uartRead(uartLSR)&lsrRxReady == 0 {
		return 0, false
	}
	return uartRead(uartRHR), true
}

// uartHandleInterrupt drains all bytes currently buffered and echoes
// them back, matching the loopback behavior in
// original_source/src/dev/uart.c's interrupt handler.
func uartHandleInterrupt() {
	for {
		c, ok := uart_getc()
		if !ok {
			break
		}
		uart_putc(c)
	}
}
