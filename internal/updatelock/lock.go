// Package updatelock implements the process-wide many-reader/single-writer
// rendezvous between application goroutines and the daemon.
//
// Application goroutines hold the lock shared (RdLock/RdUnlock); the daemon
// acquires it exclusive (WrLock/WrUnlock) only while mutating hook-site
// operation chains and filter state. Release of the exclusive hold
// happens-before any reader's next shared acquisition observes the
// mutation, via the same release/acquire fence [sync.RWMutex] already
// provides.
package updatelock

import "sync"

// UpdateLock is a single multi-reader/single-writer lock. It is created
// once, before any application goroutine runs, and is never destroyed.
// Re-entrance is not supported, matching pthread_rwlock_t semantics.
type UpdateLock struct {
	mu sync.RWMutex
}

// RdLock acquires the lock in shared mode, as done by EnterThread and after
// CycleCheck/AfterBlocking resume a drained or blocked goroutine.
func (l *UpdateLock) RdLock() { l.mu.RLock() }

// RdUnlock releases a shared hold, as done by ExitThread, CycleCheck before
// spinning, and BeforeBlocking before entering the wrapped call.
func (l *UpdateLock) RdUnlock() { l.mu.RUnlock() }

// WrLock acquires the lock exclusively. Only the daemon, via the
// evacuation protocol, ever calls this.
func (l *UpdateLock) WrLock() { l.mu.Lock() }

// WrUnlock releases the exclusive hold, resuming every reader parked on
// RdLock and allowing spin-drained goroutines to observe cleared wait
// flags before they reacquire.
func (l *UpdateLock) WrUnlock() { l.mu.Unlock() }
