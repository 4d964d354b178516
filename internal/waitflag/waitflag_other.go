//go:build !linux

package waitflag

// spin busy-spins with a scheduler yield between loads. Non-Linux
// platforms have no portable equivalent of a futex; this mirrors the
// teacher's own per-platform wakeup split, where Darwin/Windows either use
// a different native primitive or fall back to a simpler mechanism than
// the Linux eventfd path.
func spin(addr *int32) {
	yieldSpin(addr)
}

// wake is a no-op off Linux: spin reloads on every scheduler yield, so
// there is nothing to explicitly wake.
func wake(addr *int32) {
	_ = addr
}
