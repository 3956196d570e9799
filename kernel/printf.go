package main

// Minimal printf, grounded on the teacher's own printf.go, extended
// toward original_source/include/lib/stdio.h's grammar with the two
// extra conversions (%x, %p) that the trap dump and panic call sites in
// this tree actually use. The full flag/width/precision/length grammar
// stdio.c implements is not reproduced: nothing here ever asks for a
// field width.

const hexDigits = "0123456789abcdef"

func printInt(num int) {
	var buf [20]byte
	i := 0

	if num < 0 {
		uart_putc('-')
		num = -num
	}

	if num == 0 {
		uart_putc('0')
		return
	}

	for num > 0 {
		buf[i] = byte(num%10) + '0'
		i++
		num = num / 10
	}

	for i = i - 1; i >= 0; i-- {
		uart_putc(buf[i])
	}
}

func printHex(num uint64) {
	uart_putc('0')
	uart_putc('x')
	started := false
	for shift := 60; shift >= 0; shift -= 4 {
		nibble := (num >> uint(shift)) & 0xF
		if nibble != 0 {
			started = true
		}
		if started {
			uart_putc(hexDigits[nibble])
		}
	}
	if !started {
		uart_putc('0')
	}
}

func printString(str string) {
	for _, c := range str {
		uart_putc(byte(c))
	}
}

func printf(format string, args ...interface{}) {
	argIdx := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			i++
			switch format[i] {
			case 'd':
				printInt(args[argIdx].(int))
				argIdx++
			case 's':
				printString(args[argIdx].(string))
				argIdx++
			case 'x', 'p':
				switch v := args[argIdx].(type) {
				case int:
					printHex(uint64(v))
				case uint64:
					printHex(v)
				case uintptr:
					printHex(uint64(v))
				default:
					printString("?")
				}
				argIdx++
			case 'c':
				switch v := args[argIdx].(type) {
				case int:
					uart_putc(byte(v))
				case int32:
					uart_putc(byte(v))
				case byte:
					uart_putc(v)
				default:
					uart_putc('?')
				}
				argIdx++
			case '%':
				uart_putc('%')
			default:
				uart_putc('%')
				uart_putc(byte(format[i]))
			}
		} else {
			uart_putc(byte(format[i]))
		}
	}
}
