package cloudsync

import "sync/atomic"

// transferLock is a non-blocking lock guarding uploads and downloads
type transferLock struct {
	state atomic.Int32 // 0 = idle, 1 = transferring
}

// TryAcquire reports whether the lock was taken
func (l *transferLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release must only be called after a successful TryAcquire
func (l *transferLock) Release() {
	l.state.Store(0)
}
