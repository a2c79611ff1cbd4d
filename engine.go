// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Engine is the slot arbitration core of a single-producer,
// bounded-multi-consumer value exchange: it assigns exactly one slot index
// to the producer, lets consumers latch onto the most recently published
// slot index, and guarantees the producer always finds a free slot to write
// next.
//
// Engine hands out indices only; it never touches the values those indices
// refer to. Pair it with a [Container] for typed storage.
type Engine struct {
	_ pad

	// latest is the slot index most recently published, or -1 if nothing
	// has been published yet.
	latest atomix.Int32

	_ pad

	// nWriters is 0 or 1: at most one producer may be registered.
	nWriters atomix.Int32

	_ pad

	// nReaders is the number of currently registered consumers, bounded
	// by maxReaders.
	nReaders atomix.Int32

	_ pad

	// maxReaders is the engine's current advertised reader capacity (N).
	// Grows monotonically via EnsureSpaceForReaders.
	maxReaders atomix.Int32

	_ pad

	// writerIndex is the slot currently owned by the producer. It is
	// touched only by the thread holding the producer token; the
	// acquire/release pair on nWriters makes handoffs between producers
	// safe.
	writerIndex int32

	sizeMutex sync.Mutex

	// slots is readersOf: an indirection table of N+2 atomic cells.
	// Cells are individually heap-allocated and never moved, so growing
	// the table (appending new cell pointers under sizeMutex and
	// publishing a new slice header) never invalidates an index any
	// handle already holds.
	slots atomic.Pointer[[]*atomix.Int32]
}

// NewEngine creates an Engine admitting at most maxReaders concurrent
// consumers. Panics if maxReaders < 1.
func NewEngine(maxReaders int) *Engine {
	if maxReaders < 1 {
		panic("rwsync: maxReaders must be >= 1")
	}

	e := &Engine{}
	e.maxReaders.StoreRelaxed(int32(maxReaders))
	cells := newCells(maxReaders + 2)
	e.slots.Store(&cells)

	// Fresh engine: no handle can possibly be outstanding yet, so reset
	// cannot fail.
	if err := e.Reset(); err != nil {
		panic("rwsync: internal invariant violation: reset failed on a fresh engine")
	}
	return e
}

// newCells allocates n fresh, independently-addressed slot cells
// initialized to 0.
func newCells(n int) []*atomix.Int32 {
	cells := make([]*atomix.Int32, n)
	for i := range cells {
		cells[i] = &atomix.Int32{}
	}
	return cells
}

// MaxReaders returns the engine's current advertised reader capacity.
func (e *Engine) MaxReaders() int {
	return int(e.maxReaders.LoadRelaxed())
}

// Reset returns the engine to the state where nothing has been published:
// the producer owns slot 0, every other slot is free, and latest is -1.
//
// Reset requires that no producer or consumer handle currently exists; if
// one does, it returns ErrBusy and makes no changes.
func (e *Engine) Reset() error {
	lock := NewLockout(e)
	if !lock.Valid() {
		return ErrBusy
	}
	defer lock.Release()

	cells := *e.slots.Load()
	e.writerIndex = 0
	cells[0].StoreRelaxed(-1)
	for i := 1; i < len(cells); i++ {
		cells[i].StoreRelaxed(0)
	}
	e.latest.StoreRelaxed(-1)
	return nil
}

// EnsureSpaceForReaders grows the engine's advertised reader capacity to
// target, if it is not already at least that large. Existing slot
// addresses are never invalidated; this is safe to call concurrently with
// Publish, latch, and release on already-admitted slots.
func (e *Engine) EnsureSpaceForReaders(target int) {
	e.sizeMutex.Lock()
	defer e.sizeMutex.Unlock()

	current := int(e.maxReaders.LoadRelaxed())
	if target <= current {
		return
	}

	old := *e.slots.Load()
	grown := make([]*atomix.Int32, len(old), target+2)
	copy(grown, old)
	grown = append(grown, newCells(target+2-len(old))...)

	e.slots.Store(&grown)
	e.maxReaders.StoreRelaxed(int32(target))
}
