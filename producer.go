// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// ProducerHandle is a scoped registration of the sole producer allowed to
// publish new versions through an Engine. While valid, it owns the slot
// returned by Slot exclusively.
type ProducerHandle struct {
	engine *Engine
	valid  bool
}

// NewProducer attempts to register as the engine's producer. If a producer
// is already registered, it returns ErrInvalidHandle.
func NewProducer(e *Engine) (*ProducerHandle, error) {
	if !e.nWriters.CompareAndSwapAcquire(0, 1) {
		return nil, ErrInvalidHandle
	}
	return &ProducerHandle{engine: e, valid: true}, nil
}

// Valid reports whether this handle successfully registered and has not
// yet been released.
func (p *ProducerHandle) Valid() bool {
	return p.valid
}

// Slot returns the slot index currently owned by the producer. Only
// meaningful while Valid.
func (p *ProducerHandle) Slot() int32 {
	if !p.valid {
		return -1
	}
	return p.engine.writerIndex
}

// Publish hands the currently-owned slot off to readers and claims a new
// slot to write next.
//
// The handoff is: make the current slot observable (relaxed store of 0),
// publish it as latest (sequentially consistent), then scan for a free
// cell to claim as the next writerIndex (sequentially consistent CAS from
// 0 to -1). The scan is guaranteed to succeed by the engine's capacity
// invariant; if it does not, the engine's bookkeeping is corrupt and this
// is a fatal programming error.
func (p *ProducerHandle) Publish() {
	if !p.valid {
		return
	}
	e := p.engine
	cells := *e.slots.Load()
	wi := e.writerIndex

	cells[wi].StoreRelaxed(0)
	e.latest.StoreSeqCst(wi)

	for i, cell := range cells {
		if int32(i) == wi {
			continue
		}
		if cell.CompareAndSwapSeqCst(0, -1) {
			e.writerIndex = int32(i)
			return
		}
	}
	panic("rwsync: invariant violation: publish found no free slot")
}

// Release relinquishes the producer token. After Release, Valid returns
// false and Slot/Publish are no-ops.
func (p *ProducerHandle) Release() {
	if !p.valid {
		return
	}
	p.valid = false
	p.engine.nWriters.StoreRelease(0)
}
