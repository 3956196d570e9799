package main

import _ "unsafe"

//go:linkname sync_barrier sync_barrier
func sync_barrier()

//go:linkname sync_test_and_set sync_test_and_set
func sync_test_and_set(addr *uint32) uint32

//go:linkname sync_release sync_release
func sync_release(addr *uint32)

type spinlock struct {
	locked   uint32
	prevIntr intrState // interrupt state found by acquire, restored by release
}

func initlock(lk *spinlock) {
	lk.locked = 0
}

func acquire(lk *spinlock) {
	prev := intrDisable()
	for sync_test_and_set(&lk.locked) == 1 {}
	sync_barrier()
	lk.prevIntr = prev
}

func release(lk *spinlock) {
	prev := lk.prevIntr
	sync_release(&lk.locked)
	intrSetState(prev)
}