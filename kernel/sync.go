package main

// Counting semaphore and lock, grounded on
// original_source/include/threads/synch.h and src/threads/synch.c.
// Waiters queue FIFO on the semaphore's intrusive list; a lock is a
// semaphore initialized to 1 plus a holder pointer for the "no
// recursive acquire" assertion. Both must run with interrupts off
// while touching their internal state, since a timer interrupt landing
// mid-update would corrupt the waiter list.

type semaphore struct {
	value   int
	waiters list
}

func semaInit(s *semaphore, value int) {
	s.value = value
	listInit(&s.waiters)
}

func semaDown(s *semaphore) {
	prev := intrDisable()
	for s.value == 0 {
		listPushBack(&s.waiters, &currentThread.waitElem)
		threadBlock()
	}
	s.value--
	intrSetState(prev)
}

// semaTryDown returns true and consumes a unit if the semaphore is
// currently available, without blocking.
func semaTryDown(s *semaphore) bool {
	prev := intrDisable()
	ok := s.value > 0
	if ok {
		s.value--
	}
	intrSetState(prev)
	return ok
}

func semaUp(s *semaphore) {
	prev := intrDisable()
	s.value++
	if !listEmpty(&s.waiters) {
		e := listPopFront(&s.waiters)
		t := listEntry[thread](e, waitElemOffset)
		threadUnblock(t)
	}
	assert(s.value == 0 || listEmpty(&s.waiters), "sync.go", 0, "semaUp", "value>0 implies waiters empty")
	intrSetState(prev)
}

type lockT struct {
	holder *thread
	sema   semaphore
}

func lockInit(l *lockT) {
	l.holder = nil
	semaInit(&l.sema, 1)
}

func lockHeldByCurrentThread(l *lockT) bool {
	return l.holder == currentThread
}

func lockAcquire(l *lockT) {
	assert(!lockHeldByCurrentThread(l), "sync.go", 0, "lockAcquire", "recursive acquire")
	semaDown(&l.sema)
	l.holder = currentThread
}

func lockTryAcquire(l *lockT) bool {
	assert(!lockHeldByCurrentThread(l), "sync.go", 0, "lockTryAcquire", "recursive acquire")
	ok := semaTryDown(&l.sema)
	if ok {
		l.holder = currentThread
	}
	return ok
}

func lockRelease(l *lockT) {
	assert(lockHeldByCurrentThread(l), "sync.go", 0, "lockRelease", "release by non-holder")
	l.holder = nil
	semaUp(&l.sema)
}
