// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// cellSource is anything that can resolve a slot index handed out by an
// Engine to the Cell it refers to. Container and ExpandableContainer both
// implement it, so WritePtr and ReadPtr work unmodified over either.
type cellSource[T any] interface {
	cellAt(i int32) *Cell[T]
}

// Container pairs an Engine with a fixed set of typed Cells: one per slot,
// indexed the same way the Engine indexes readersOf. It is the typed
// storage layer the Engine itself deliberately knows nothing about.
type Container[T any] struct {
	engine *Engine
	cells  []*Cell[T]
}

func (c *Container[T]) cellAt(i int32) *Cell[T] {
	return c.cells[i]
}

// NewContainer builds a Container admitting at most maxReaders concurrent
// readers. newT is called once per slot (maxReaders+2 times) to construct
// each cell's initial value.
func NewContainer[T any](maxReaders int, newT func() T) *Container[T] {
	e := NewEngine(maxReaders)
	cells := make([]*Cell[T], maxReaders+2)
	for i := range cells {
		cells[i] = NewCell(newT())
	}
	return &Container[T]{engine: e, cells: cells}
}

// MaxReaders returns the container's current advertised reader capacity.
func (c *Container[T]) MaxReaders() int {
	return c.engine.MaxReaders()
}

// Reset returns the underlying engine to the state where nothing has been
// published. Requires that no WritePtr or ReadPtr is currently live;
// returns ErrBusy otherwise. Cell contents are left untouched — only the
// slot bookkeeping is reset.
func (c *Container[T]) Reset() error {
	return c.engine.Reset()
}

// Map calls f once on every cell's value, in index order, while holding
// exclusive access to the underlying engine. Returns ErrBusy if any
// WritePtr or ReadPtr is currently live.
func (c *Container[T]) Map(f func(*T)) error {
	lock := NewLockout(c.engine)
	if !lock.Valid() {
		return ErrBusy
	}
	defer lock.Release()

	for _, cell := range c.cells {
		f(cell.Value())
	}
	return nil
}

// Writer attempts to register as the container's sole producer. Returns
// ErrInvalidHandle if a producer is already registered.
func (c *Container[T]) Writer() (*WritePtr[T], error) {
	h, err := NewProducer(c.engine)
	if err != nil {
		return nil, err
	}
	return &WritePtr[T]{cells: c, handle: h}, nil
}

// Reader registers a new consumer. The returned pointer is always
// non-nil; check Valid (or CanRead) before using it.
func (c *Container[T]) Reader() *ReadPtr[T] {
	return &ReadPtr[T]{cells: c, handle: NewConsumer(c.engine)}
}

// WritePtr is a scoped write handle into a Container: the sole producer
// allowed to mutate the currently-owned cell and publish it.
type WritePtr[T any] struct {
	cells  cellSource[T]
	handle *ProducerHandle
}

// Valid reports whether this pointer successfully registered as producer.
func (w *WritePtr[T]) Valid() bool {
	return w.handle != nil && w.handle.Valid()
}

// Value returns a pointer to the currently-owned cell's T. Only
// meaningful while Valid.
func (w *WritePtr[T]) Value() *T {
	return w.cells.cellAt(w.handle.Slot()).Value()
}

// PushUpdate publishes the currently-owned cell to readers and acquires a
// new cell to write next, without releasing producer status.
func (w *WritePtr[T]) PushUpdate() {
	w.handle.Publish()
}

// Release relinquishes producer status.
func (w *WritePtr[T]) Release() {
	if w.handle != nil {
		w.handle.Release()
	}
}

// ReadPtr is a scoped read handle into a Container: it latches onto the
// most recently published cell and can be advanced to a later one.
type ReadPtr[T any] struct {
	cells  cellSource[T]
	handle *ConsumerHandle
}

// Valid reports whether this pointer is registered as a consumer.
func (r *ReadPtr[T]) Valid() bool {
	return r.handle.Valid()
}

// CanRead reports whether this pointer is registered and has something to
// read — false for a reader created before the first publish.
func (r *ReadPtr[T]) CanRead() bool {
	return r.handle.CanRead()
}

// Value returns a pointer to the currently-latched cell's T and true, or
// (nil, false) if there is nothing to read yet.
func (r *ReadPtr[T]) Value() (*T, bool) {
	if !r.handle.CanRead() {
		return nil, false
	}
	return r.cells.cellAt(r.handle.Slot()).Value(), true
}

// HasUpdate reports whether a newer version than the one currently
// latched has been published.
func (r *ReadPtr[T]) HasUpdate() bool {
	return r.handle.HasUpdate()
}

// Advance latches onto the most recently published cell, if newer than
// the one currently held.
func (r *ReadPtr[T]) Advance() {
	r.handle.Advance()
}

// TryToMakeValid retries registration for a pointer that failed to become
// valid.
func (r *ReadPtr[T]) TryToMakeValid() bool {
	return r.handle.TryToMakeValid()
}

// Release relinquishes the consumer slot.
func (r *ReadPtr[T]) Release() {
	r.handle.Release()
}
