// Package evacuate implements the evacuation protocol (spec C6): it drives
// the system from "running" to "quiescent with respect to a given set of
// unsafe sites", hands control back to the caller to mutate hook-dispatch
// state, then resumes the system.
//
// Grounded verbatim on original_source/runtime/Updater/Evacuate.cpp's
// EvacuateAndUpdate: raise wait flags on every safe back edge, then
// repeatedly acquire the update-lock exclusively and probe unsafe call
// site counters, releasing and retrying until none are occupied.
package evacuate

import (
	"github.com/columbia/loom/internal/atomiccounter"
	"github.com/columbia/loom/internal/updatelock"
	"github.com/columbia/loom/internal/waitflag"
)

// Evacuate brings the system to a state where no goroutine is executing
// past a safe back edge without having drained at it, and none is inside
// a call site named in unsafeCallSites, then returns a Resume function
// that must be called (exactly once) to release the exclusive hold and
// clear the wait flags it raised.
//
// backEdges and callSites are the full site tables; unsafeBackEdges and
// unsafeCallSites select which of those must be protected for this
// operation. The caller is expected to mutate hook-dispatch state between
// calling Evacuate and calling the returned Resume.
func Evacuate(
	lock *updatelock.UpdateLock,
	backEdges []*waitflag.Flag,
	unsafeBackEdges []bool,
	callSites []*atomiccounter.Counter,
	unsafeCallSites []bool,
) (resume func()) {
	// Raise wait flags on every safe back edge. Any goroutine crossing one
	// now drains at CycleCheck, releasing its shared lock hold and
	// spinning.
	for i, e := range backEdges {
		if i < len(unsafeBackEdges) && unsafeBackEdges[i] {
			continue
		}
		e.Set()
	}

	// Probe-and-retry: acquiring the lock exclusively can only succeed
	// once every goroutine has either drained at a safe back edge or
	// released the lock before a blocking call. Releasing between
	// unsuccessful probes is required so in-flight goroutines can reach
	// their safe edges / call-site exits; holding it would deadlock them
	// against EnterThread/AfterBlocking.
	for {
		lock.WrLock()

		occupied := false
		for i, unsafe := range unsafeCallSites {
			if unsafe && i < len(callSites) && callSites[i].Load() > 0 {
				occupied = true
				break
			}
		}
		if !occupied {
			break
		}

		lock.WrUnlock()
	}

	return func() {
		for _, e := range backEdges {
			e.Clear()
		}
		lock.WrUnlock()
	}
}
