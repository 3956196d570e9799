package main

import "unsafe"

// Thread lifecycle and round-robin scheduler, grounded on
// original_source/include/threads/thread.h and src/threads/thread.c,
// with the Go-side Context/switch_contexts shape cross-checked against
// the teacher's own proc.go. Each thread's struct lives at the base of
// its own allocated kernel-stack page, the stack growing down from the
// top of that same page, exactly like the teacher's kalloc.go "run"
// trick applied to a whole control block instead of one link field.

type threadStatus int

const (
	threadNew threadStatus = iota
	threadReady
	threadRunning
	threadBlocked
	threadDead
)

// Context holds exactly what switch_contexts needs to resume a thread:
// the return address and the 12 callee-saved integer registers, per
// original_source/include/threads/switch.h.
type Context struct {
	ra uintptr
	s  [12]uintptr
}

type thread struct {
	magic     uint32
	tid       int
	name      [32]byte
	status    threadStatus
	process   *process
	exitCode  int
	ctx       *Context
	stackPage uintptr
	fn        func()
	readyElem listElem
	waitElem  listElem
}

var waitElemOffset = unsafe.Offsetof(thread{}.waitElem)
var readyElemOffset = unsafe.Offsetof(thread{}.readyElem)

var (
	currentThread *thread
	idleThread    *thread
	readyQueue    list
	nextTid       int
	ticksLeft     int
)

// process groups threads under a shared name and (eventually) a shared
// page table, grounded on original_source/include/threads/thread.h's
// proc_t. Every thread here belongs to kernelProc: this kernel never
// creates a second process (spec.md's own Non-goals rule out user-mode
// processes), so threadCount only ever grows and shrinks around
// kernelProc and freeProcess's teardown path is unreachable in
// practice. It stays wired for the same reason NUM_HART-sized state
// stays wired: the design must remain sound if a caller adds real
// multi-process support later.
type process struct {
	name        [32]byte
	pagetable   pagetableT
	threadCount int
}

var kernelProc process

func procInit() {
	copy(kernelProc.name[:], "kernel")
}

// procVMInit records the kernel's page table on kernelProc once vmmInit
// has built it. Kept as its own step, mirroring the original's separate
// proc_vm_init, since a future non-kernel process would set this at a
// different point in its own lifecycle than at thread registration.
func procVMInit() {
	kernelProc.pagetable = kernelPagetable
}

func procRegisterThread(t *thread) {
	assert(isThread(t), "thread.go", 0, "procRegisterThread", "corrupt thread")
	assert(t.status == threadNew, "thread.go", 0, "procRegisterThread", "thread must be NEW to register")
	t.process.threadCount++
}

// procDeregisterThread drops t's process refcount. If it reaches zero
// for a process other than kernelProc, the process's page table and
// record are freed -- see freeProcess.
func procDeregisterThread(t *thread) {
	assert(isThread(t), "thread.go", 0, "procDeregisterThread", "corrupt thread")
	assert(t.status == threadDead, "thread.go", 0, "procDeregisterThread", "thread must be DEAD to deregister")
	p := t.process
	p.threadCount--
	if p.threadCount == 0 && p != &kernelProc {
		freeProcess(p)
	}
}

func freeProcess(p *process) {
	freePages(uintptr(p.pagetable), 0)
	free(uintptr(unsafe.Pointer(p)))
}

//go:linkname switchContexts switchContexts
func switchContexts(cur **Context, next **Context)

//go:linkname threadStubAddr threadStubAddr
func threadStubAddr() uintptr

func threadInit() {
	listInit(&readyQueue)
	nextTid = 1
	procInit()

	idleThread = threadCreate("idle", idleLoop)
	currentThread = idleThread
	currentThread.status = threadRunning
	ticksLeft = timeSlice
}

func allocTid() int {
	prev := intrDisable()
	tid := nextTid
	nextTid++
	intrSetState(prev)
	return tid
}

// threadCreate allocates a single page to hold both the thread struct
// (at the base) and its kernel stack (growing down from the page top),
// fabricates an initial Context so the first switch into this thread
// lands in threadStub, and enqueues it ready to run.
func threadCreate(name string, fn func()) *thread {
	page := allocPages(0)
	if page == 0 {
		kernelPanic("thread.go", 0, "threadCreate", "out of memory for thread stack")
	}
	memset(page, 0, uint(pageSize))

	t := (*thread)(unsafe.Pointer(page))
	t.magic = threadMagic
	t.tid = allocTid()
	copy(t.name[:], name)
	t.status = threadNew
	t.stackPage = page
	t.fn = fn
	t.exitCode = -1

	t.process = &kernelProc
	procRegisterThread(t)

	top := page + pageSize
	ctxAddr := top - unsafe.Sizeof(Context{})
	ctx := (*Context)(unsafe.Pointer(ctxAddr))
	*ctx = Context{}
	ctx.ra = threadStubAddr()
	t.ctx = ctx

	t.status = threadReady
	listPushBack(&readyQueue, &t.readyElem)
	info("thread: created %s (tid %d)\n", threadName(t), t.tid)
	return t
}

// threadName reads a thread's name back out of its fixed-size, NUL
// terminated name field the same way the rest of this tree reads any
// other raw byte range: by pointer and length rather than slice syntax.
func threadName(t *thread) string {
	base := uintptr(unsafe.Pointer(&t.name[0]))
	n := strlen(base)
	if n > uint(len(t.name)) {
		n = uint(len(t.name))
	}
	return string(t.name[:n])
}

// isThread reports whether t's stack-overflow canary is intact.
func isThread(t *thread) bool {
	return t != nil && t.magic == threadMagic
}

// threadCurrentUnchecked validates only the magic canary, not run
// state. schedule() needs this: by the time it runs, its caller has
// already moved the current thread off THREAD_RUNNING (to READY,
// BLOCKED, or DEAD), so asserting RUNNING here would fire on every
// ordinary yield/block/exit.
func threadCurrentUnchecked() *thread {
	t := currentThread
	assert(isThread(t), "thread.go", 0, "threadCurrentUnchecked", "corrupt thread pointer (bad magic)")
	return t
}

// threadCurrent returns the running thread, asserting its magic and
// state exactly like the original's thread_current. Ordinary callers
// (threadYield, threadBlock, threadExit, threadStub) route through
// this before they touch the current thread's status themselves, so a
// stack overflow into the thread header, or a call made before the
// scheduler is ready, is caught here instead of corrupting scheduler
// state silently.
func threadCurrent() *thread {
	t := threadCurrentUnchecked()
	assert(t.status == threadRunning, "thread.go", 0, "threadCurrent", "called on a non-running thread")
	return t
}

// threadStub is where control lands the first time a freshly created
// thread is switched to. It corresponds to the teacher's TaskStub /
// GetTaskStubAddr pair, generalized to run through schedule_tail first.
//
//export ThreadStub
func threadStub() {
	scheduleTail(switchingFrom)
	intr_on()
	t := threadCurrent()
	if t.fn != nil {
		t.fn()
	}
	threadExit()
}

var switchingFrom *thread

// schedule runs with interrupts disabled. It picks the next ready
// thread (or the idle thread if none is ready), switches to it, and
// returns once some later invocation switches back to the caller.
// Mirrors the original's schedule(): it reads the outgoing thread with
// the unchecked accessor and asserts the opposite of thread_current's
// run-state check, since the caller has already moved prev off
// THREAD_RUNNING before calling in here.
func schedule() {
	next := threadNextToRun()
	prev := threadCurrentUnchecked()
	assert(prev.status != threadRunning, "thread.go", 0, "schedule", "current thread must already be off RUNNING")

	next.status = threadRunning
	if next == prev {
		scheduleTail(prev)
		return
	}

	currentThread = next
	switchingFrom = prev
	switchContexts(&prev.ctx, &next.ctx)

	// Control resumes here once some later switch lands back on this
	// thread's stack, exactly like threadStub does for a brand new
	// thread's first run. switchingFrom is read fresh rather than
	// using the prev captured above, since by the time this thread is
	// resumed a different thread may be the one that most recently
	// switched away.
	scheduleTail(switchingFrom)
}

func threadNextToRun() *thread {
	if listEmpty(&readyQueue) {
		return idleThread
	}
	e := listPopFront(&readyQueue)
	return listEntry[thread](e, readyElemOffset)
}

// scheduleTail runs on the new thread's stack with interrupts disabled,
// immediately after switchContexts lands there. It finalizes the
// outgoing thread's bookkeeping and, if that thread exited, frees its
// page now that this thread (not that one) is running on its own
// stack.
func scheduleTail(prev *thread) {
	ticksLeft = timeSlice

	if prev != nil && prev.status == threadDead {
		// Deregister before freeing prev's stack page: the thread
		// record itself lives on that page, so procDeregisterThread
		// must be done reading it first.
		procDeregisterThread(prev)
		freePages(prev.stackPage, 0)
	}
}

func threadYield() {
	prev := intrDisable()
	t := threadCurrent()
	t.status = threadReady
	if t != idleThread {
		listPushBack(&readyQueue, &t.readyElem)
	}
	schedule()
	intrSetState(prev)
}

func threadBlock() {
	assert(!intr_get(), "thread.go", 0, "threadBlock", "must run with interrupts off")
	t := threadCurrent()
	t.status = threadBlocked
	schedule()
}

func threadUnblock(t *thread) {
	prev := intrDisable()
	assert(isThread(t), "thread.go", 0, "threadUnblock", "corrupt thread pointer (bad magic)")
	assert(t.status == threadBlocked, "thread.go", 0, "threadUnblock", "unblocking a non-blocked thread")
	t.status = threadReady
	listPushBack(&readyQueue, &t.readyElem)
	intrSetState(prev)
}

func threadExit() {
	prev := intrDisable()
	t := threadCurrent()
	info("thread: exiting %s (tid %d)\n", threadName(t), t.tid)
	t.status = threadDead
	schedule()
	kernelPanic("thread.go", 0, "threadExit", "returned after exit")
	intrSetState(prev)
}

// threadTick is called from the timer interrupt path. It decrements the
// current thread's quantum and reports whether it has run out; the
// timer interrupt handler in trap.go then calls threadYield directly.
func threadTick() bool {
	ticksLeft--
	return ticksLeft <= 0
}

func idleLoop() {
	for {
		intr_on()
		threadYield()
	}
}
