package main

import "unsafe"

// Tiny helpers shared by the PLIC and CLINT drivers for reading and
// writing their memory-mapped registers.

func readReg32(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

func writeReg32(addr uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = v
}

func readReg64(addr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(addr))
}

func writeReg64(addr uintptr, v uint64) {
	*(*uint64)(unsafe.Pointer(addr)) = v
}
