// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// Cell holds one instance of T behind a stable address. An ExpandableContainer grows
// its backing set of Cells by appending new pointers rather than moving
// existing ones, so a slot index handed out by an Engine always refers to
// the same Cell for as long as that index is held.
type Cell[T any] struct {
	value T
}

// NewCell allocates a Cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Value returns a pointer to the cell's T, valid for the Cell's lifetime.
func (c *Cell[T]) Value() *T {
	return &c.value
}
