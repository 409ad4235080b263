// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "testing"

func TestCommandPoolAcquireReuse(t *testing.T) {
	pool := NewCommandPool(2, 0)
	if pool.TotalCount() != 2 || pool.FreeCount() != 2 {
		t.Fatalf("want total=2 free=2, got total=%d free=%d", pool.TotalCount(), pool.FreeCount())
	}
	c1 := pool.Acquire()
	c1.Init(CommandFlush)
	if pool.FreeCount() != 1 {
		t.Fatalf("want free=1 after acquire, got %d", pool.FreeCount())
	}
	c1.Release()
	if pool.FreeCount() != 2 {
		t.Fatalf("want free=2 after release, got %d", pool.FreeCount())
	}
}

func TestCommandPoolGrowsUnbounded(t *testing.T) {
	pool := NewCommandPool(0, 0)
	c := pool.Acquire()
	if c == nil {
		t.Fatal("want non-nil command from empty, unbounded pool")
	}
	if pool.TotalCount() != 1 {
		t.Fatalf("want total=1, got %d", pool.TotalCount())
	}
	// Acquire alone (no Init call) must already be a valid, singly-owned
	// command: one Release returns it to the free list.
	c.Release()
	if pool.FreeCount() != 1 {
		t.Fatalf("want free=1 after a single Release with no Init, got %d", pool.FreeCount())
	}
}

func TestCommandPoolMaxSizeRejectsOverflow(t *testing.T) {
	pool := NewCommandPool(1, 1)
	c1 := pool.Acquire()
	if c1 == nil {
		t.Fatal("want first acquire to succeed")
	}
	if c2 := pool.Acquire(); c2 != nil {
		t.Fatal("want nil once the pool is at maxSize with an empty free list")
	}
	c1.Release()
	if c3 := pool.Acquire(); c3 == nil {
		t.Fatal("want acquire to succeed again once the released command returns to the free list")
	}
}

func TestCommandSentinelAndMediaClassification(t *testing.T) {
	pool := NewCommandPool(4, 0)
	flush := pool.Acquire()
	flush.Init(CommandEndOfStream)
	if !flush.IsSentinel() || flush.IsMedia() {
		t.Fatal("end-of-stream must be a sentinel, not media")
	}
	frame := pool.Acquire()
	frame.Init(CommandFrame)
	if frame.IsSentinel() || !frame.IsMedia() {
		t.Fatal("frame must be media, not a sentinel")
	}
}

type countingPayload struct {
	addRefed *int
	released *int
}

func (p *countingPayload) AddRef(payload any) any {
	*p.addRefed++
	return payload
}

func (p *countingPayload) Release(payload any) { *p.released++ }

func TestCommandSetDataReleasesOnClearAndRelease(t *testing.T) {
	pool := NewCommandPool(1, 0)
	cmd := pool.Acquire()
	cmd.Init(CommandFrame)
	addRefed, released := 0, 0
	vtable := &countingPayload{addRefed: &addRefed, released: &released}
	cmd.SetData("frame-bytes", vtable)
	if addRefed != 1 {
		t.Fatalf("want 1 AddRef after SetData, got %d", addRefed)
	}
	cmd.ClearData()
	if released != 1 {
		t.Fatalf("want 1 release after ClearData, got %d", released)
	}
	cmd.SetData("frame-bytes-2", vtable)
	if addRefed != 2 {
		t.Fatalf("want 2 AddRefs total, got %d", addRefed)
	}
	cmd.Release()
	if released != 2 {
		t.Fatalf("want 2 releases total after Command.Release, got %d", released)
	}
}
