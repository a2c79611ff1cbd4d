// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rwsync provides a wait-free single-producer, bounded-multi-
// consumer value exchange.
//
// One producer goroutine continually publishes new versions of a value of
// arbitrary type T; up to N consumer goroutines each independently observe
// the most recent published version at their own pace. Neither the
// producer nor any consumer ever waits on another, and after construction
// no heap allocation occurs on the publish/observe hot paths: N+2 storage
// slots are pre-allocated up front, and publishing or observing a version
// only ever exchanges small integer slot indices.
//
// A consumer is not guaranteed to see every published version — it may
// skip over intermediate ones if it is slower than the producer. This is
// the point: readers never block the writer, and the writer never blocks
// on readers.
//
// # Quick Start
//
//	c := rwsync.NewContainer[Snapshot](4, func() Snapshot { return Snapshot{} })
//
//	// Producer
//	go func() {
//	    w, err := c.Writer()
//	    if err != nil {
//	        panic(err) // a second producer is a programming error
//	    }
//	    defer w.Release()
//	    for snap := range snapshots {
//	        *w.Value() = snap
//	        w.PushUpdate()
//	    }
//	}()
//
//	// Consumers
//	for range 4 {
//	    go func() {
//	        r := c.Reader()
//	        defer r.Release()
//	        backoff := iox.Backoff{}
//	        for {
//	            if !r.HasUpdate() {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            r.Advance()
//	            v, ok := r.Value()
//	            if ok {
//	                consume(*v)
//	            }
//	        }
//	    }()
//	}
//
// # Growing Reader Capacity
//
// A Container's reader capacity is fixed at construction. Use an
// ExpandableContainer when the number of consumers is not known ahead of
// time:
//
//	c := rwsync.NewExpandableContainer[Snapshot](func() Snapshot { return Snapshot{} })
//
//	// Reader() grows capacity by one automatically if the container is
//	// currently full, instead of returning an invalid pointer.
//	r := c.Reader()
//	defer r.Release()
//
// # Builder
//
//	c := rwsync.BuildContainer[Snapshot](rwsync.New(4), newSnapshot)
//	e := rwsync.BuildExpandableContainer[Snapshot](rwsync.New(1).Expandable(), newSnapshot)
//
// # Bulk Operations
//
// Map applies a function to every underlying cell's value, in index
// order, as long as no WritePtr or ReadPtr is currently outstanding:
//
//	err := c.Map(func(snap *Snapshot) {
//	    snap.Reconfigure(newSettings)
//	})
//	if rwsync.IsBusy(err) {
//	    // a producer or consumer is still live; drop it and retry
//	}
//
// Reset (on either container type, or directly on an Engine) returns to
// the state before any value was ever published. It requires the same
// exclusive access as Map.
//
// # Lower-Level: Engine
//
// Container and ExpandableContainer are built on Engine, which hands out
// bare slot indices without knowing anything about T. Most callers should
// prefer the typed containers; Engine is exposed directly for callers
// managing their own storage:
//
//	e := rwsync.NewEngine(4)
//	storage := make([]Snapshot, e.MaxReaders()+2)
//
//	w, _ := rwsync.NewProducer(e)
//	storage[w.Slot()] = someSnapshot
//	w.Publish()
//
//	r := rwsync.NewConsumer(e)
//	if r.CanRead() {
//	    use(storage[r.Slot()])
//	}
//
// # Error Handling
//
// ErrBusy and ErrInvalidHandle are the only two error values this package
// returns; both are classified with Is* helpers ([IsBusy], [IsInvalidHandle])
// following the same delegation convention
// [code.hybscloud.com/iox] uses for its own semantic errors. Anything else
// this package cannot recover from — a corrupt capacity accounting, a
// reader count gone negative, latest reverting to unpublished outside a
// Reset — panics rather than returning an error; those conditions can only
// be caused by a bug in this package or in a caller violating the
// single-producer constraint.
//
// # Thread Safety
//
// Exactly one goroutine may hold a WritePtr/ProducerHandle for a given
// container/engine at a time; requesting a second one is rejected, not
// serialized. Up to the advertised reader capacity may hold a
// ReadPtr/ConsumerHandle concurrently. Map and Reset block behind an
// internal mutex shared with capacity growth, but are never on the
// publish/advance/hasUpdate hot path.
//
// # Race Detection
//
// As with this ecosystem's lock-free queues, the race detector cannot
// observe the happens-before relationships this package establishes
// purely through atomic memory orderings on separate variables
// (readersOf's cells and latest). Tests that would produce false
// positives under the race detector skip themselves when [RaceEnabled]
// is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for the bounded CAS
// retry loops on the hot path, and [code.hybscloud.com/iox] for the
// off-hot-path backoff used by ExpandableContainer's growth retries. Error
// classification uses only the standard library's errors package.
package rwsync
