package waitflag

import (
	"runtime"
	"sync/atomic"
)

// yieldSpin busy-spins with a scheduler yield between loads, used as the
// fallback when a platform-specific park primitive is unavailable or
// returns an unexpected error. A yield inside the spin is a
// quality-of-implementation choice, not a correctness requirement: a pure
// busy-spin would still be correct, just harder on the scheduler.
func yieldSpin(addr *int32) {
	for atomic.LoadInt32(addr) != 0 {
		runtime.Gosched()
	}
}
