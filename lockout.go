// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// Lockout is a scoped exclusive-access claim: it atomically excludes every
// producer and consumer (and the capacity mutex) for as long as it is
// held, so bulk operations like Reset or Container.Map can touch every
// slot without concern for who else might be using them.
type Lockout struct {
	engine *Engine
	valid  bool
}

// NewLockout attempts to claim exclusive access to e. If any producer or
// consumer is currently registered, the returned handle is invalid and
// nothing is held.
func NewLockout(e *Engine) *Lockout {
	e.sizeMutex.Lock()

	if !e.nReaders.CompareAndSwapAcquire(0, e.maxReaders.LoadRelaxed()) {
		e.sizeMutex.Unlock()
		return &Lockout{engine: e}
	}

	if !e.nWriters.CompareAndSwapAcquire(0, 1) {
		e.nReaders.StoreRelease(0)
		e.sizeMutex.Unlock()
		return &Lockout{engine: e}
	}

	return &Lockout{engine: e, valid: true}
}

// Valid reports whether this handle holds exclusive access.
func (l *Lockout) Valid() bool {
	return l.valid
}

// Release relinquishes exclusive access, if held.
func (l *Lockout) Release() {
	if !l.valid {
		return
	}
	l.valid = false
	l.engine.nWriters.StoreRelease(0)
	l.engine.nReaders.StoreRelease(0)
	l.engine.sizeMutex.Unlock()
}
