// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import (
	"time"

	"code.hybscloud.com/atomix"
)

// WaitableFifo wraps a CircularBuffer[T] with a write-space semaphore, an
// optional read-data semaphore, a flow-enable gate, and timed/try wait
// variants.
//
// Invariants (see spec.md §4.3): write-semaphore count + occupancy <= C at
// steady state; read-semaphore count <= occupancy at steady state; when
// flow is disabled, every write-side entry point returns StatusFlowDisabled
// without touching the ring.
type WaitableFifo[T any] struct {
	ring       *CircularBuffer[T]
	writeSem   *CountingSemaphore
	readSem    *CountingSemaphore // nil if no read semaphore was requested
	flowOn     atomix.Bool
	userData   any
	tag        int64
	hasBeenRead atomix.Bool
	userMonitor func(fifo *WaitableFifo[T], userData any, tag int64)
}

// FifoOption configures an optional WaitableFifo knob.
type FifoOption[T any] func(*WaitableFifo[T])

// WithReadSemaphore enables the optional read-data semaphore (initial
// count 0), required for WaitReadData/TryWaitReadData/WaitReadDataTimed to be
// meaningful.
func WithReadSemaphore[T any]() FifoOption[T] {
	return func(f *WaitableFifo[T]) {
		f.readSem = NewCountingSemaphore(0, f.ring.Capacity())
	}
}

// WithUserData attaches opaque user data and a numeric tag, both passed
// through to the head-monitor callback unchanged.
func WithUserData[T any](userData any, tag int64) FifoOption[T] {
	return func(f *WaitableFifo[T]) {
		f.userData = userData
		f.tag = tag
	}
}

// WithHeadMonitor installs a user head-monitor, invoked as (fifo, userData,
// tag) whenever the underlying ring transitions empty→non-empty on write, or
// a read leaves the ring non-empty (spec.md §4.3 "Head-monitor translation").
func WithHeadMonitor[T any](fn func(fifo *WaitableFifo[T], userData any, tag int64)) FifoOption[T] {
	return func(f *WaitableFifo[T]) {
		f.userMonitor = fn
	}
}

// WithWaterMark installs high/low occupancy thresholds on the underlying
// ring.
func WithWaterMark[T any](high, low int, highFn, lowFn WaterMarkFunc, opaque any) FifoOption[T] {
	return func(f *WaitableFifo[T]) {
		f.ring.SetWaterMark(high, low, highFn, lowFn, opaque)
	}
}

// NewWaitableFifo creates a FIFO of the given capacity and mode. Flow starts
// disabled; call SetFlowEnabled(true) before writing.
func NewWaitableFifo[T any](capacity int, mode BufferMode, opts ...FifoOption[T]) *WaitableFifo[T] {
	f := &WaitableFifo[T]{
		ring:     NewCircularBuffer[T](capacity, mode),
		writeSem: NewCountingSemaphore(capacity, capacity),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.ring.SetHeadMonitor(func(rb *CircularBuffer[T]) {
		if f.userMonitor != nil {
			f.userMonitor(f, f.userData, f.tag)
		}
	})
	return f
}

// Write appends item. Returns StatusFlowDisabled if flow is off,
// StatusFifoFull if the ring has no space, StatusOK on success.
func (f *WaitableFifo[T]) Write(item T) Status {
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	if !f.ring.Push(item) {
		return StatusFifoFull
	}
	if f.readSem != nil {
		f.readSem.Post()
	}
	return StatusOK
}

// Preempt inserts item at the head, so the next Read returns it first.
func (f *WaitableFifo[T]) Preempt(item T) Status {
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	if !f.ring.Preempt(item) {
		return StatusFifoFull
	}
	if f.readSem != nil {
		f.readSem.Post()
	}
	return StatusOK
}

// Read removes and returns the head item. Reads are never gated by flow, so
// a consumer can drain a FIFO after its producer has disabled flow.
func (f *WaitableFifo[T]) Read() (T, Status) {
	v, ok := f.ring.Pop()
	if !ok {
		var zero T
		return zero, StatusFifoFull
	}
	f.writeSem.Post()
	f.hasBeenRead.StoreRelease(true)
	return v, StatusOK
}

// WaitWriteSpace blocks until a write slot is available, or returns
// StatusFlowDisabled immediately (or after being woken by SetFlowEnabled).
func (f *WaitableFifo[T]) WaitWriteSpace() Status {
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	f.writeSem.Wait()
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	return StatusOK
}

// WaitWriteSpaceTimed is WaitWriteSpace bounded by d, returning
// StatusTimeout on expiry.
func (f *WaitableFifo[T]) WaitWriteSpaceTimed(d time.Duration) Status {
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	st := f.writeSem.WaitTimed(d)
	if st == StatusTimeout {
		return StatusTimeout
	}
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	return StatusOK
}

// TryWaitWriteSpace is the non-blocking form of WaitWriteSpace.
func (f *WaitableFifo[T]) TryWaitWriteSpace() Status {
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	if err := f.writeSem.TryWait(); err != nil {
		return StatusFifoFull
	}
	if !f.flowOn.LoadAcquire() {
		return StatusFlowDisabled
	}
	return StatusOK
}

// WaitReadData blocks until data is available. Meaningful only if the FIFO
// was created with WithReadSemaphore. Always returns StatusOK regardless of
// flow state — consumers drain after producer shutdown (see spec.md §5).
func (f *WaitableFifo[T]) WaitReadData() Status {
	if f.readSem == nil {
		return StatusOK
	}
	f.readSem.Wait()
	return StatusOK
}

// WaitReadDataTimed is WaitReadData bounded by d.
func (f *WaitableFifo[T]) WaitReadDataTimed(d time.Duration) Status {
	if f.readSem == nil {
		return StatusOK
	}
	return f.readSem.WaitTimed(d)
}

// TryWaitReadData is the non-blocking form of WaitReadData.
func (f *WaitableFifo[T]) TryWaitReadData() Status {
	if f.readSem == nil {
		return StatusOK
	}
	if err := f.readSem.TryWait(); err != nil {
		return StatusFifoFull
	}
	return StatusOK
}

// SetFlowEnabled idempotently switches the flow gate. Turning flow off wakes
// at most one blocked writer (if the ring is currently full) and at most one
// blocked reader (if the ring is currently empty and a read semaphore
// exists) via a single Post+Reset pair each, per spec.md §4.3/§5.
func (f *WaitableFifo[T]) SetFlowEnabled(enabled bool) {
	prev := f.flowOn.Load()
	f.flowOn.StoreRelease(enabled)
	if prev == enabled {
		return
	}
	if enabled {
		return
	}
	if f.ring.StoredCount() >= f.ring.Capacity() {
		f.writeSem.Post()
		f.writeSem.Reset()
	}
	if f.readSem != nil && f.ring.StoredCount() == 0 {
		f.readSem.Post()
		f.readSem.Reset()
	}
}

// FlowEnabled reports the current flow state.
func (f *WaitableFifo[T]) FlowEnabled() bool { return f.flowOn.LoadAcquire() }

// StoredCount returns the underlying ring's current occupancy.
func (f *WaitableFifo[T]) StoredCount() int { return f.ring.StoredCount() }

// HasBeenRead reports whether Read has ever succeeded on this FIFO (a
// one-way latch; never resets to false).
func (f *WaitableFifo[T]) HasBeenRead() bool { return f.hasBeenRead.LoadAcquire() }

// Tag returns the numeric tag passed via WithUserData.
func (f *WaitableFifo[T]) Tag() int64 { return f.tag }

// Capacity returns the FIFO's configured capacity.
func (f *WaitableFifo[T]) Capacity() int { return f.ring.Capacity() }
