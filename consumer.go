// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

import "code.hybscloud.com/spin"

// ConsumerHandle is a scoped registration of one of an Engine's bounded
// consumer slots. While valid, it latches onto the most recently
// published slot at its own pace; a consumer is never guaranteed to
// observe every published version, only the latest one as of whenever it
// chooses to look.
type ConsumerHandle struct {
	engine *Engine
	valid  bool
	index  int32 // currently latched slot, or -1
}

// NewConsumer registers e's consumer count permitting, and always returns
// a non-nil handle. If the engine is already at its advertised reader
// capacity, the returned handle is invalid; call TryToMakeValid to retry,
// e.g. after the engine's capacity has been grown.
func NewConsumer(e *Engine) *ConsumerHandle {
	h := &ConsumerHandle{engine: e, index: -1}
	h.TryToMakeValid()
	return h
}

// TryToMakeValid retries registration for a handle that failed to become
// valid (or that has been Released). Returns the resulting validity.
func (h *ConsumerHandle) TryToMakeValid() bool {
	if h.valid {
		return true
	}
	e := h.engine
	var sw spin.Wait
	for {
		cur := e.nReaders.LoadAcquire()
		if cur >= e.maxReaders.LoadRelaxed() {
			return false
		}
		if e.nReaders.CompareAndSwapAcquire(cur, cur+1) {
			h.valid = true
			h.latch()
			return true
		}
		sw.Once()
	}
}

// Valid reports whether this handle currently holds a registered consumer
// slot.
func (h *ConsumerHandle) Valid() bool {
	return h.valid
}

// CanRead reports whether this handle is registered and has latched onto
// a published value. A valid handle created before the first Publish has
// nothing to read yet.
func (h *ConsumerHandle) CanRead() bool {
	return h.valid && h.index != -1
}

// Slot returns the currently-latched slot index, or -1 if there is
// nothing to read.
func (h *ConsumerHandle) Slot() int32 {
	if !h.valid {
		return -1
	}
	return h.index
}

// HasUpdate reports whether a newer version than the one currently
// latched has been published.
func (h *ConsumerHandle) HasUpdate() bool {
	if !h.valid {
		return false
	}
	latest := h.engine.latest.LoadRelaxed()
	return latest != -1 && latest != h.index
}

// Advance releases the currently-latched slot and re-latches onto the
// most recently published one, if a newer version is available.
func (h *ConsumerHandle) Advance() {
	if !h.valid || !h.HasUpdate() {
		return
	}
	h.release()
	h.latch()
}

// Release relinquishes the consumer slot. After Release, Valid returns
// false.
func (h *ConsumerHandle) Release() {
	if !h.valid {
		return
	}
	h.release()
	h.valid = false
	h.engine.nReaders.AddRelease(-1)
}

// release drops the currently-latched cell, if any, without touching
// nReaders.
func (h *ConsumerHandle) release() {
	if h.index == -1 {
		return
	}
	cells := *h.engine.slots.Load()
	prior := cells[h.index].AddSeqCst(-1) + 1
	if prior <= 0 {
		panic("rwsync: invariant violation: reader count underflow")
	}
	h.index = -1
}

// latch implements the core consumer algorithm: load the latest published
// slot and increment its reader count, retrying if the producer reclaims
// the slot out from under us.
func (h *ConsumerHandle) latch() {
	e := h.engine
	cells := *e.slots.Load()

	target := e.latest.LoadSeqCst()
	if target == -1 {
		h.index = -1
		return
	}

	var sw spin.Wait
	r := int32(0)
	for {
		if !cells[target].CompareAndSwapRelaxed(r, r+1) {
			r = cells[target].LoadRelaxed()
			if r == -1 {
				// The producer reclaimed this slot; it must have
				// designated a new latest before doing so.
				target = e.latest.LoadRelaxed()
				if target == -1 {
					panic("rwsync: invariant violation: latest reverted to unpublished")
				}
				r = 0
			}
			sw.Once()
			continue
		}
		break
	}
	h.index = target
}
