package main

// Nested interrupt-disable/enable discipline, grounded on
// original_source/src/trap/interrupt.c's intr_get_state/intr_disable/
// intr_set_state. Every place that needs to touch shared state without
// a timer interrupt landing mid-update (ready queue, waiter lists,
// thread status, tid allocator) saves the previous state, does its
// work, then restores exactly what it found -- so nested callers never
// re-enable interrupts a caller further out had deliberately turned
// off.

type intrState bool

const (
	intrOff intrState = false
	intrOn  intrState = true
)

func intrGetState() intrState {
	if intr_get() {
		return intrOn
	}
	return intrOff
}

func intrSetState(s intrState) intrState {
	prev := intrGetState()
	if s == intrOn {
		intr_on()
	} else {
		intr_off()
	}
	return prev
}

func intrDisable() intrState {
	prev := intrGetState()
	intr_off()
	return prev
}
