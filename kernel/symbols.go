package main

import _ "unsafe"

// Linker-provided section boundaries, grounded on
// original_source/include/mm/symbols.h and the teacher's own
// get_end/get_etext declarations. Resolved externally by the linker
// script, same as the teacher leaves get_end/get_etext.

//go:linkname textStart textStart
func textStart() uintptr

//go:linkname textEnd textEnd
func textEnd() uintptr

//go:linkname rodataStart rodataStart
func rodataStart() uintptr

//go:linkname rodataEnd rodataEnd
func rodataEnd() uintptr

//go:linkname dataStart dataStart
func dataStart() uintptr

//go:linkname dataEnd dataEnd
func dataEnd() uintptr

//go:linkname bssStart bssStart
func bssStart() uintptr

//go:linkname bssEnd bssEnd
func bssEnd() uintptr

//go:linkname stackStart stackStart
func stackStart() uintptr

//go:linkname stackEnd stackEnd
func stackEnd() uintptr

// get_end is the teacher's original name for the first free physical
// address after the kernel image (== bssEnd, kept for continuity with
// the linker script symbol most RISC-V ports call "end").
//go:linkname get_end get_end
func get_end() uintptr

// get_etext is the teacher's original name for the end of kernel text.
//go:linkname get_etext get_etext
func get_etext() uintptr
