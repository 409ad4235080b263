// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// BufferMode selects a CircularBuffer's concurrency algorithm. The mode is
// fixed at construction time and cannot be switched afterward — the two
// algorithms keep incompatible internal state (atomic cached indices for
// SPSC vs a plain mutex-guarded head/tail for MPMC), and spec.md §9 flags
// switching modes post-construction as unsupported.
type BufferMode int

const (
	// ModeSPSC is the lock-free, wait-free single-producer/single-consumer
	// mode. Exactly one goroutine may push/preempt and exactly one goroutine
	// may pop; violating this is undefined behavior (a mode contract, not a
	// defect — see spec.md §9 "Single-producer/single-consumer safety").
	ModeSPSC BufferMode = iota
	// ModeMPMC is the mutex-protected mode safe for any number of producer
	// and consumer goroutines.
	ModeMPMC
)

// HeadMonitorFunc is invoked when a CircularBuffer transitions empty to
// non-empty on push, or when a pop leaves the ring non-empty. It must be
// idempotent and must not call back into the same ring (spec.md §9 Open
// Question 1: the source does not define behavior for a monitor that
// mutates the ring it was invoked from — this port leaves that undefined
// too, rather than silently guessing a semantics the original never
// specified).
type HeadMonitorFunc[T any] func(rb *CircularBuffer[T])

// WaterMarkFunc is invoked when a CircularBuffer's occupancy crosses a
// configured high or low water mark.
type WaterMarkFunc func(opaque any)

// CircularBuffer is a fixed-capacity ring buffer for T with two concurrency
// modes. Capacity is stored as capacity+1 backing slots so that full and
// empty remain distinguishable by index comparison in SPSC mode, matching
// the classic Lamport ring buffer scheme; the MPMC mode tracks occupancy
// directly and does not need the extra slot, but allocates it too so both
// modes share one constructor and one backing-slice shape.
type CircularBuffer[T any] struct {
	mode     BufferMode
	capacity int
	size     int // capacity + 1
	buf      []T

	// SPSC state: head is consumer-owned, tail is producer-owned, each an
	// absolute position taken mod size for the slot index. Both start at a
	// multiple of size; tail only increases, while head increases on Pop and
	// decreases by one on Preempt. Preempt (invoked by the
	// producer) also mutates head, so head is mutated via CompareAndSwap
	// rather than a plain store — steady state (no concurrent Preempt) still
	// succeeds its CAS on the first attempt.
	spscHead   atomix.Uint64
	spscTail   atomix.Uint64
	cachedHead uint64
	cachedTail uint64

	// MPMC state: a single mutex guards head/tail/occupancy transitions.
	mu     sync.Mutex
	mHead  int
	mTail  int
	mCount int

	// count mirrors occupancy for the cheap, mode-agnostic StoredCount()
	// read path; updated under the MPMC mutex or atomically in SPSC mode.
	count atomix.Int64

	headMonitor HeadMonitorFunc[T]

	highMark, lowMark int
	highFn, lowFn     WaterMarkFunc
	waterOpaque       any
}

// NewCircularBuffer creates a ring of the given capacity and mode. Panics if
// capacity <= 0 (capacity 0 is explicitly disallowed, spec.md §4.2).
func NewCircularBuffer[T any](capacity int, mode BufferMode) *CircularBuffer[T] {
	if capacity <= 0 {
		panic("avpipe: circular buffer capacity must be > 0")
	}
	rb := &CircularBuffer[T]{
		mode:     mode,
		capacity: capacity,
		size:     capacity + 1,
		buf:      make([]T, capacity+1),
	}
	// Start the SPSC positions well above zero so that Preempt can step head
	// below its start without wrapping the uint64, which would break the
	// position-to-slot mapping for a size that is not a power of two.
	base := uint64(rb.size) << 32
	rb.spscHead.StoreRelease(base)
	rb.spscTail.StoreRelease(base)
	rb.cachedHead, rb.cachedTail = base, base
	return rb
}

// Capacity returns the configured capacity (not counting the extra slot).
func (rb *CircularBuffer[T]) Capacity() int { return rb.capacity }

// StoredCount returns the current occupancy.
func (rb *CircularBuffer[T]) StoredCount() int {
	return int(rb.count.Load())
}

// SetHeadMonitor installs (or clears, with nil) the head-monitor callback.
func (rb *CircularBuffer[T]) SetHeadMonitor(fn HeadMonitorFunc[T]) {
	rb.headMonitor = fn
}

// SetWaterMark installs high/low water-mark thresholds and handlers. opaque
// is passed through to both handlers unchanged.
func (rb *CircularBuffer[T]) SetWaterMark(high, low int, highFn, lowFn WaterMarkFunc, opaque any) {
	rb.highMark, rb.lowMark = high, low
	rb.highFn, rb.lowFn = highFn, lowFn
	rb.waterOpaque = opaque
}

// Push appends item at the tail. Returns false if the ring is full.
func (rb *CircularBuffer[T]) Push(item T) bool {
	if rb.mode == ModeSPSC {
		return rb.spscPush(item, false)
	}
	return rb.mpmcPush(item, false)
}

// Preempt inserts item at the head, so the next Pop returns it first.
// Returns false if the ring is full.
func (rb *CircularBuffer[T]) Preempt(item T) bool {
	if rb.mode == ModeSPSC {
		return rb.spscPush(item, true)
	}
	return rb.mpmcPush(item, true)
}

// Pop removes and returns the item at the head. Returns false if empty.
func (rb *CircularBuffer[T]) Pop() (T, bool) {
	if rb.mode == ModeSPSC {
		return rb.spscPop()
	}
	return rb.mpmcPop()
}

// --- SPSC ---

func (rb *CircularBuffer[T]) spscPush(item T, preempt bool) bool {
	if !preempt {
		tail := rb.spscTail.LoadRelaxed()
		if tail-rb.cachedHead >= uint64(rb.capacity) {
			rb.cachedHead = rb.spscHead.LoadAcquire()
			if tail-rb.cachedHead >= uint64(rb.capacity) {
				return false
			}
		}
		rb.buf[tail%uint64(rb.size)] = item
		rb.spscTail.StoreRelease(tail + 1)
	} else {
		// Insert at head-1: producer mutates head here, so CAS against the
		// consumer's own head advances in Pop.
		sw := spin.Wait{}
		for {
			h := rb.spscHead.LoadAcquire()
			t := rb.spscTail.LoadRelaxed()
			if t-h >= uint64(rb.capacity) {
				return false
			}
			newHead := h - 1
			rb.buf[newHead%uint64(rb.size)] = item
			if rb.spscHead.CompareAndSwapAcqRel(h, newHead) {
				rb.cachedHead = newHead
				break
			}
			sw.Once()
		}
	}

	pre := rb.count.AddAcqRel(1) - 1
	if pre == 0 && rb.headMonitor != nil {
		rb.headMonitor(rb)
	}
	rb.checkHighMark(int(pre) + 1)
	return true
}

func (rb *CircularBuffer[T]) spscPop() (T, bool) {
	sw := spin.Wait{}
	for {
		head := rb.spscHead.LoadAcquire()
		if head == rb.cachedTail {
			rb.cachedTail = rb.spscTail.LoadAcquire()
			if head == rb.cachedTail {
				var zero T
				return zero, false
			}
		}

		idx := head % uint64(rb.size)
		elem := rb.buf[idx]
		var zero T
		rb.buf[idx] = zero

		if !rb.spscHead.CompareAndSwapAcqRel(head, head+1) {
			sw.Once()
			continue
		}

		post := rb.count.AddAcqRel(-1)
		if post > 0 && rb.headMonitor != nil {
			rb.headMonitor(rb)
		}
		rb.checkLowMark(int(post))
		return elem, true
	}
}

// --- MPMC ---

func (rb *CircularBuffer[T]) mpmcPush(item T, preempt bool) bool {
	rb.mu.Lock()
	if rb.mCount >= rb.capacity {
		rb.mu.Unlock()
		return false
	}

	var preCount int
	if !preempt {
		rb.buf[rb.mTail] = item
		rb.mTail = (rb.mTail + 1) % rb.size
	} else {
		rb.mHead = (rb.mHead - 1 + rb.size) % rb.size
		rb.buf[rb.mHead] = item
	}
	preCount = rb.mCount
	rb.mCount++
	rb.count.Store(int64(rb.mCount))
	rb.mu.Unlock()

	if preCount == 0 && rb.headMonitor != nil {
		rb.headMonitor(rb)
	}
	rb.checkHighMark(preCount + 1)
	return true
}

func (rb *CircularBuffer[T]) mpmcPop() (T, bool) {
	rb.mu.Lock()
	if rb.mCount == 0 {
		rb.mu.Unlock()
		var zero T
		return zero, false
	}

	idx := rb.mHead
	elem := rb.buf[idx]
	var zero T
	rb.buf[idx] = zero
	rb.mHead = (rb.mHead + 1) % rb.size
	rb.mCount--
	post := rb.mCount
	rb.count.Store(int64(rb.mCount))
	rb.mu.Unlock()

	if post > 0 && rb.headMonitor != nil {
		rb.headMonitor(rb)
	}
	rb.checkLowMark(post)
	return elem, true
}

// checkHighMark fires highFn when postPushCount — the occupancy immediately
// after a successful push — reaches highMark+1, i.e. on every upward crossing
// of the high mark.
func (rb *CircularBuffer[T]) checkHighMark(postPushCount int) {
	if rb.highFn != nil && postPushCount == rb.highMark+1 {
		rb.highFn(rb.waterOpaque)
	}
}

// checkLowMark fires lowFn when postPopCount — the occupancy immediately
// after a successful pop — reaches lowMark-1, i.e. on every downward crossing
// of the low mark.
func (rb *CircularBuffer[T]) checkLowMark(postPopCount int) {
	if rb.lowFn != nil && postPopCount == rb.lowMark-1 {
		rb.lowFn(rb.waterOpaque)
	}
}

// Drain pops every remaining item, invoking fn (if non-nil) for each, with
// the head-monitor cleared first so draining never re-enters callbacks.
// Used by destructors (spec.md §4.2 "Destruction pops until empty...").
func (rb *CircularBuffer[T]) Drain(fn func(T)) {
	rb.SetHeadMonitor(nil)
	for {
		v, ok := rb.Pop()
		if !ok {
			return
		}
		if fn != nil {
			fn(v)
		}
	}
}
