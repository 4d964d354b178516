//go:build linux

package waitflag

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux futex op codes. golang.org/x/sys/unix exposes SYS_FUTEX but not
// the operation codes themselves, so these are defined locally, same as
// the example corpus's hand-rolled futex wrapper does.
const (
	futexWait = 0
	futexWake = 1
)

// spin parks the calling goroutine on a futex until *addr becomes 0,
// instead of hot-spinning. Grounded on the FutexWait/FutexWake pair from
// the example corpus's hand-rolled thread-parallelism primitives: the
// wait flag plays the same role here as that code's barrier counter, a
// 32-bit cell goroutines park on until another thread changes it.
func spin(addr *int32) {
	for {
		v := atomic.LoadInt32(addr)
		if v == 0 {
			return
		}
		_, _, errno := unix.Syscall6(
			unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(addr)),
			uintptr(futexWait),
			uintptr(v),
			0, 0, 0,
		)
		// EAGAIN: value already changed since the Load above, retry the
		// Load. EINTR: spurious wake, retry. Any other error: fall back
		// to a scheduler yield rather than busy-spin.
		if errno != 0 && errno != unix.EAGAIN && errno != unix.EINTR {
			yieldSpin(addr)
			return
		}
	}
}

// wake wakes every goroutine parked in spin on addr.
func wake(addr *int32) {
	unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), uintptr(futexWake), ^uintptr(0)>>1, 0, 0, 0)
}
