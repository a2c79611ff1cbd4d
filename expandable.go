// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/iox"
)

// ExpandableContainer is a Container whose reader capacity can grow at
// runtime. It keeps the factory newT so that freshly-grown cells can be
// constructed on demand, and grows its own Cell slice through the same
// stable-address indirection technique the Engine uses for readersOf.
type ExpandableContainer[T any] struct {
	engine    *Engine
	newT      func() T
	growMutex sync.Mutex
	cells     atomic.Pointer[[]*Cell[T]]
}

// NewExpandableContainer builds an ExpandableContainer that initially
// admits one reader. newT is called once per cell to construct its
// initial value, both at construction and on every later grow.
func NewExpandableContainer[T any](newT func() T) *ExpandableContainer[T] {
	c := &ExpandableContainer[T]{
		engine: NewEngine(1),
		newT:   newT,
	}
	cells := make([]*Cell[T], 3)
	for i := range cells {
		cells[i] = NewCell(newT())
	}
	c.cells.Store(&cells)
	return c
}

func (c *ExpandableContainer[T]) cellAt(i int32) *Cell[T] {
	return (*c.cells.Load())[i]
}

// MaxReaders returns the container's current advertised reader capacity.
func (c *ExpandableContainer[T]) MaxReaders() int {
	return c.engine.MaxReaders()
}

// Reset returns the underlying engine to the state where nothing has been
// published. Requires that no WritePtr or ReadPtr is currently live.
func (c *ExpandableContainer[T]) Reset() error {
	return c.engine.Reset()
}

// Map calls f once on every cell's value, in index order, while holding
// exclusive access to the underlying engine.
func (c *ExpandableContainer[T]) Map(f func(*T)) error {
	lock := NewLockout(c.engine)
	if !lock.Valid() {
		return ErrBusy
	}
	defer lock.Release()

	for _, cell := range *c.cells.Load() {
		f(cell.Value())
	}
	return nil
}

// IncreaseMaxReadersTo grows the container's reader capacity to n, if it
// is not already at least that large, growing both the underlying
// engine's slot table and this container's own cell set in lock-step.
func (c *ExpandableContainer[T]) IncreaseMaxReadersTo(n int) {
	c.growMutex.Lock()
	defer c.growMutex.Unlock()

	if n <= c.engine.MaxReaders() {
		return
	}
	c.engine.EnsureSpaceForReaders(n)

	old := *c.cells.Load()
	grown := make([]*Cell[T], len(old), n+2)
	copy(grown, old)
	for len(grown) < n+2 {
		grown = append(grown, NewCell(c.newT()))
	}
	c.cells.Store(&grown)
}

// Writer attempts to register as the container's sole producer. Returns
// ErrInvalidHandle if a producer is already registered.
func (c *ExpandableContainer[T]) Writer() (*WritePtr[T], error) {
	h, err := NewProducer(c.engine)
	if err != nil {
		return nil, err
	}
	return &WritePtr[T]{cells: c, handle: h}, nil
}

// Reader registers a new consumer, growing the container's reader
// capacity by one if it is currently at capacity. Unlike Container.Reader,
// the returned pointer is always valid (though it may still have nothing
// to read if nothing has been published yet): under concurrent contention
// Reader keeps growing and retrying, backing off between attempts, until
// registration succeeds.
func (c *ExpandableContainer[T]) Reader() *ReadPtr[T] {
	h := NewConsumer(c.engine)
	if !h.Valid() {
		var bo iox.Backoff
		for !h.Valid() {
			c.IncreaseMaxReadersTo(c.engine.MaxReaders() + 1)
			if h.TryToMakeValid() {
				break
			}
			bo.Wait()
		}
		bo.Reset()
	}
	return &ReadPtr[T]{cells: c, handle: h}
}
