// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// Builder provides a fluent API for configuring a Container before
// construction, mirroring this ecosystem's queue-builder convention.
//
// Example:
//
//	c := rwsync.BuildContainer[Snapshot](rwsync.New(4), func() Snapshot { return Snapshot{} })
//	e := rwsync.BuildExpandableContainer[Snapshot](rwsync.New(1).Expandable(), func() Snapshot { return Snapshot{} })
type Builder struct {
	maxReaders int
	expandable bool
}

// New creates a Builder admitting at most maxReaders concurrent consumers
// once built. Panics if maxReaders < 1.
func New(maxReaders int) *Builder {
	if maxReaders < 1 {
		panic("rwsync: maxReaders must be >= 1")
	}
	return &Builder{maxReaders: maxReaders}
}

// Expandable marks the container as growable: BuildExpandableContainer
// must be used to build it, and maxReaders becomes the initial capacity
// rather than a fixed one.
func (b *Builder) Expandable() *Builder {
	b.expandable = true
	return b
}

// BuildContainer builds a fixed-capacity Container. Panics if b was
// configured with Expandable().
func BuildContainer[T any](b *Builder, newT func() T) *Container[T] {
	if b.expandable {
		panic("rwsync: BuildContainer requires a Builder without Expandable()")
	}
	return NewContainer[T](b.maxReaders, newT)
}

// BuildExpandableContainer builds a growable ExpandableContainer, seeded
// with b's maxReaders as the initial capacity. Panics if b was not
// configured with Expandable().
func BuildExpandableContainer[T any](b *Builder, newT func() T) *ExpandableContainer[T] {
	if !b.expandable {
		panic("rwsync: BuildExpandableContainer requires a Builder configured with Expandable()")
	}
	c := NewExpandableContainer[T](newT)
	if b.maxReaders > 1 {
		c.IncreaseMaxReadersTo(b.maxReaders)
	}
	return c
}
