package main

import "unsafe"

func memset(dst uintptr, c int, n uint) {
	for i := uint(0); i < n; i++ {
		*(*byte)(unsafe.Pointer(dst + uintptr(i))) = byte(c)
	}
}

func memcpy(dst, src uintptr, n uint) {
	for i := uint(0); i < n; i++ {
		*(*byte)(unsafe.Pointer(dst + uintptr(i))) = *(*byte)(unsafe.Pointer(src + uintptr(i)))
	}
}

func strlen(s uintptr) uint {
	var n uint
	for *(*byte)(unsafe.Pointer(s + uintptr(n))) != 0 {
		n++
	}
	return n
}
