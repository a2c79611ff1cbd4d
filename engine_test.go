// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync_test

import (
	"testing"

	"code.hybscloud.com/rwsync"
)

// TestBasicRoundTrip exercises a single producer and a single consumer on
// an engine with capacity for one reader.
func TestBasicRoundTrip(t *testing.T) {
	e := rwsync.NewEngine(1)

	p, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}

	c := rwsync.NewConsumer(e)
	if !c.Valid() {
		t.Fatalf("consumer registration failed")
	}
	if c.CanRead() {
		t.Fatalf("CanRead: got true before any publish, want false")
	}

	if got := p.Slot(); got != 0 {
		t.Fatalf("initial producer slot: got %d, want 0", got)
	}

	p.Publish()

	if !c.HasUpdate() {
		t.Fatalf("HasUpdate: got false after publish, want true")
	}
	c.Advance()
	if !c.CanRead() {
		t.Fatalf("CanRead: got false after advance, want true")
	}
	firstReaderSlot := c.Slot()
	if firstReaderSlot != 0 {
		t.Fatalf("reader latched onto slot %d, want 0 (the slot just published)", firstReaderSlot)
	}

	p.Release()

	p2, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("re-register producer: %v", err)
	}
	remaining := p2.Slot()
	if remaining == 0 || remaining == firstReaderSlot {
		t.Fatalf("new producer slot %d collides with slot 0 or reader slot %d", remaining, firstReaderSlot)
	}

	c.Release()
	p2.Release()
}

// TestSkipIntermediateVersions publishes several times with no consumer
// registered; a consumer that registers afterward should observe only the
// final version.
func TestSkipIntermediateVersions(t *testing.T) {
	e := rwsync.NewEngine(1)

	p, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}

	var lastSlot int32
	for i := 0; i < 5; i++ {
		lastSlot = p.Slot()
		p.Publish()
	}

	c := rwsync.NewConsumer(e)
	if !c.Valid() {
		t.Fatalf("consumer registration failed")
	}
	c.Advance()
	if !c.CanRead() {
		t.Fatalf("CanRead: got false, want true")
	}
	if got := c.Slot(); got != lastSlot {
		t.Fatalf("consumer slot: got %d, want %d (the fifth publish)", got, lastSlot)
	}

	c.Release()
	p.Release()
}

// TestFullHouseBoundedReaders verifies that registration is refused once
// the advertised reader capacity is reached, and that dropping one
// consumer frees a slot for the next.
func TestFullHouseBoundedReaders(t *testing.T) {
	e := rwsync.NewEngine(3)

	consumers := make([]*rwsync.ConsumerHandle, 3)
	for i := range consumers {
		consumers[i] = rwsync.NewConsumer(e)
		if !consumers[i].Valid() {
			t.Fatalf("consumer %d: registration failed", i)
		}
	}

	fourth := rwsync.NewConsumer(e)
	if fourth.Valid() {
		t.Fatalf("fourth consumer registered, want capacity exhausted")
	}

	consumers[0].Release()

	if !fourth.TryToMakeValid() {
		t.Fatalf("TryToMakeValid: got false after freeing a slot, want true")
	}

	fourth.Release()
	for _, c := range consumers[1:] {
		c.Release()
	}
}

// TestExclusiveAccessRefused verifies Reset is refused while a consumer is
// live and succeeds once it is released.
func TestExclusiveAccessRefused(t *testing.T) {
	e := rwsync.NewEngine(1)

	c := rwsync.NewConsumer(e)
	if !c.Valid() {
		t.Fatalf("consumer registration failed")
	}

	if err := e.Reset(); !rwsync.IsBusy(err) {
		t.Fatalf("Reset while consumer live: got %v, want ErrBusy", err)
	}

	lock := rwsync.NewLockout(e)
	if lock.Valid() {
		t.Fatalf("Lockout acquired exclusive access while a consumer is live")
	}

	c.Release()

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset after release: %v", err)
	}

	lock = rwsync.NewLockout(e)
	if !lock.Valid() {
		t.Fatalf("Lockout failed with no handles outstanding")
	}
	lock.Release()
}

// TestSecondProducerRejected verifies at most one producer handle can be
// valid at a time.
func TestSecondProducerRejected(t *testing.T) {
	e := rwsync.NewEngine(1)

	p1, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("first NewProducer: %v", err)
	}

	if _, err := rwsync.NewProducer(e); !rwsync.IsInvalidHandle(err) {
		t.Fatalf("second NewProducer: got %v, want ErrInvalidHandle", err)
	}

	p1.Release()

	if _, err := rwsync.NewProducer(e); err != nil {
		t.Fatalf("NewProducer after release: %v", err)
	}
}

// TestGrowThenAdmit verifies EnsureSpaceForReaders admits more consumers
// without disturbing already-registered ones.
func TestGrowThenAdmit(t *testing.T) {
	e := rwsync.NewEngine(1)

	c1 := rwsync.NewConsumer(e)
	if !c1.Valid() {
		t.Fatalf("consumer 1: registration failed")
	}

	e.EnsureSpaceForReaders(3)

	c2 := rwsync.NewConsumer(e)
	c3 := rwsync.NewConsumer(e)
	if !c2.Valid() || !c3.Valid() {
		t.Fatalf("consumers 2/3: registration failed after growth")
	}

	p, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	p.Publish()

	for i, c := range []*rwsync.ConsumerHandle{c1, c2, c3} {
		c.Advance()
		if !c.CanRead() {
			t.Fatalf("consumer %d: CanRead false after advance", i)
		}
	}

	c1.Release()
	c2.Release()
	c3.Release()
	p.Release()
}

// TestPublishNeverFindsNoFreeSlot stresses many publish cycles with
// consumers continuously latching and releasing, as a cheap proxy for the
// progress property: publish must always find a free slot.
func TestPublishNeverFindsNoFreeSlot(t *testing.T) {
	e := rwsync.NewEngine(4)

	p, err := rwsync.NewProducer(e)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	defer p.Release()

	consumers := make([]*rwsync.ConsumerHandle, 4)
	for i := range consumers {
		consumers[i] = rwsync.NewConsumer(e)
		if !consumers[i].Valid() {
			t.Fatalf("consumer %d: registration failed", i)
		}
	}

	for round := 0; round < 1000; round++ {
		p.Publish()
		for i, c := range consumers {
			if round%(i+1) == 0 {
				c.Advance()
			}
		}
	}

	for _, c := range consumers {
		c.Release()
	}
}
