//go:build linux

package daemon

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// blockAllSignals blocks every signal on the calling OS thread, matching
// the source's BlockAllSignals (sigfillset + pthread_sigmask(SIG_BLOCK)).
// Host applications such as MySQL or Apache have their own signal
// handling (often a dedicated thread blocked in sigwait); if the daemon
// thread intercepted a signal meant for that thread, the host's own
// signal handling would never see it.
func blockAllSignals() error {
	var set unix.Sigset_t
	for i := range set.Val {
		set.Val[i] = ^uint64(0)
	}
	return unix.PthreadSigmask(unix.SIG_BLOCK, &set, nil)
}

// setThreadName sets the calling OS thread's name, matching the source's
// SetThreadName (prctl(PR_SET_NAME, ...)), so the daemon thread is
// identifiable with `ps -L` / `ps c` in the host process.
func setThreadName(name string) error {
	b, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(b)), 0, 0, 0)
}
