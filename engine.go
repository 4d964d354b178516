package loom

import (
	"sync/atomic"

	"github.com/columbia/loom/internal/atomiccounter"
	"github.com/columbia/loom/internal/evacuate"
	"github.com/columbia/loom/internal/updatelock"
	"github.com/columbia/loom/internal/waitflag"
)

// Engine is the process-wide runtime state: the update-lock, the back-edge
// wait flags, the blocking-call-site counters, and the hook-dispatch
// tables. The process-global Engine is created by [EnterProcess] and torn
// down by [ExitProcess]; instrumented code reaches it through the
// package-level functions ([EnterThread], [CycleCheck], ...) rather than
// through this type directly, mirroring the source's use of process
// globals rather than a passed-around context object. [NewEngine] creates
// further, isolated engines.
type Engine struct {
	lock updatelock.UpdateLock

	backEdges []*waitflag.Flag
	counters  []*atomiccounter.Counter
	sites     []*hookSite

	nextOpID atomic.Uint64
}

// global is the single live Engine, set by EnterProcess and cleared by
// ExitProcess. It is nil before EnterProcess and after ExitProcess.
var global *Engine

// NewEngine allocates an Engine sized per the current [MaxNumBackEdges],
// [MaxNumInsts], and [MaxNumBlockingCS]. Exported so tests (and embedders
// that want more than one isolated engine, e.g. in-process integration
// tests) don't have to go through the process-global singleton.
func NewEngine() *Engine {
	e := &Engine{
		backEdges: make([]*waitflag.Flag, MaxNumBackEdges),
		counters:  make([]*atomiccounter.Counter, MaxNumBlockingCS),
		sites:     make([]*hookSite, MaxNumInsts),
	}
	for i := range e.backEdges {
		e.backEdges[i] = new(waitflag.Flag)
	}
	for i := range e.counters {
		e.counters[i] = new(atomiccounter.Counter)
	}
	for i := range e.sites {
		e.sites[i] = new(hookSite)
	}
	return e
}

// EnterThread acquires the update-lock in shared mode on behalf of the
// calling goroutine.
func (e *Engine) EnterThread() { e.lock.RdLock() }

// ExitThread releases the calling goroutine's shared hold.
func (e *Engine) ExitThread() { e.lock.RdUnlock() }

// CycleCheck implements spec §4.4: the common case is a single relaxed
// load and branch; only when the back edge's wait flag is set does the
// calling goroutine release its shared hold, spin, and reacquire.
func (e *Engine) CycleCheck(backEdgeID int) {
	f := e.backEdges[backEdgeID]
	if !f.IsSet() {
		return
	}
	e.lock.RdUnlock()
	f.Spin()
	e.lock.RdLock()
}

// BeforeBlocking implements spec §4.4: increment the call site's counter,
// then release the shared hold before the goroutine enters the wrapped
// blocking call, so the daemon is never blocked behind it.
func (e *Engine) BeforeBlocking(callSiteID int) {
	e.counters[callSiteID].Inc()
	e.lock.RdUnlock()
}

// AfterBlocking implements spec §4.4: reacquire the shared hold before
// decrementing the counter, so the daemon never observes the counter at
// zero while the goroutine is still outside the lock.
func (e *Engine) AfterBlocking(callSiteID int) {
	e.lock.RdLock()
	e.counters[callSiteID].Dec()
}

// Dispatch invokes, in order, every operation currently chained at the
// given hook site. Instrumented code calls this at each program point a
// filter may attach instrumentation to; CycleCheck and Before/AfterBlocking
// are deliberately separate, narrower hooks (spec §4.4) and never dispatch
// a chain themselves.
func (e *Engine) Dispatch(slotID int) {
	e.sites[slotID].dispatch()
}

// Prepend splices op onto the front of op.SlotID's chain and returns a
// process-unique handle the caller must retain in order to later Unlink
// this exact operation. Callers must be holding the update-lock
// exclusively, with op.SlotID already evacuated (see [Engine.Evacuate]).
func (e *Engine) Prepend(op Operation) uint64 {
	id := e.nextOpID.Add(1)
	e.sites[op.SlotID].prepend(id, op)
	return id
}

// Unlink removes the chain entry installed under handle id from slotID's
// chain. Callers must be holding the update-lock exclusively, with
// slotID already evacuated.
func (e *Engine) Unlink(slotID int, id uint64) {
	e.sites[slotID].unlink(id)
}

// Evacuate runs the evacuation protocol (spec §4.6) against this engine's
// back-edge and call-site tables: it raises the wait flag of every back
// edge not named in unsafeBackEdges, and waits until no call site named in
// unsafeCallSites is occupied. The returned resume function must be
// called exactly once, after the caller finishes mutating hook-dispatch
// state, to clear the wait flags raised and release the exclusive lock.
func (e *Engine) Evacuate(unsafeBackEdges, unsafeCallSites []int) (resume func()) {
	unsafeEdgeSet := indexSet(unsafeBackEdges, len(e.backEdges))
	unsafeSiteSet := indexSet(unsafeCallSites, len(e.counters))
	return evacuate.Evacuate(&e.lock, e.backEdges, unsafeEdgeSet, e.counters, unsafeSiteSet)
}

func indexSet(indices []int, n int) []bool {
	set := make([]bool, n)
	for _, i := range indices {
		if i >= 0 && i < n {
			set[i] = true
		}
	}
	return set
}

// EnterProcess initializes the process-wide Engine. It must run before
// any other function in this package and before the host application's
// global constructors that might themselves reach a back edge or blocking
// call site — mirroring the source's requirement that LoomEnterProcess
// precede all other global_ctors. It must not depend on any runtime
// facility that might not yet be initialized; NewEngine and this function
// touch nothing but this package's own state.
func EnterProcess() {
	global = NewEngine()
	global.EnterThread()
}

// ExitProcess tears down the process-wide Engine: it releases the calling
// (final) goroutine's shared hold, then clears every site's operation
// chain.
func ExitProcess() {
	if global == nil {
		return
	}
	global.ExitThread()
	for _, s := range global.sites {
		s.mu.Lock()
		s.chain = nil
		s.mu.Unlock()
	}
	global = nil
}

// EnterThread acquires the update-lock in shared mode on behalf of the
// calling goroutine, via the process-global Engine.
func EnterThread() { global.EnterThread() }

// ExitThread releases the calling goroutine's shared hold, via the
// process-global Engine.
func ExitThread() { global.ExitThread() }

// CycleCheck is CycleCheck on the process-global Engine. See spec §4.4.
func CycleCheck(backEdgeID int) { global.CycleCheck(backEdgeID) }

// BeforeBlocking is BeforeBlocking on the process-global Engine.
func BeforeBlocking(callSiteID int) { global.BeforeBlocking(callSiteID) }

// AfterBlocking is AfterBlocking on the process-global Engine.
func AfterBlocking(callSiteID int) { global.AfterBlocking(callSiteID) }

// Dispatch is Dispatch on the process-global Engine.
func Dispatch(slotID int) { global.Dispatch(slotID) }

// Global returns the process-global Engine, or nil if EnterProcess has
// not (yet) been called. The filter package takes an *Engine explicitly
// (and the daemon package a filter registry bound to one) rather than
// reaching for this directly, so tests can use an isolated [NewEngine]
// instead of the process singleton.
func Global() *Engine { return global }
