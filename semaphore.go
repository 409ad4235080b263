// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "time"

// CountingSemaphore is a platform counting semaphore with Post, Wait,
// TryWait, WaitTimed, and Reset. Its current count is always >= 0.
//
// Implementation: a buffered channel is used as the counting token store —
// Post is a non-blocking send, Wait is a receive, TryWait is a select with a
// default case, and WaitTimed races the receive against a timer. This is
// the same "buffered channel as counting semaphore" idiom used throughout
// the Go ecosystem for exactly this purpose.
//
// Post and Wait are total: neither spuriously fails. TryWait returns
// ErrWouldBlock when the count is zero without blocking.
type CountingSemaphore struct {
	tokens chan struct{}
}

// NewCountingSemaphore creates a semaphore with the given initial count and
// maximum count. max bounds how many tokens the channel can ever hold; a
// Post past max is dropped (Post still returns StatusOK and the count stays
// at max).
func NewCountingSemaphore(initial, max int) *CountingSemaphore {
	if max < 0 || initial < 0 || initial > max {
		panic("avpipe: invalid semaphore initial/max count")
	}
	s := &CountingSemaphore{tokens: make(chan struct{}, max)}
	for i := 0; i < initial; i++ {
		s.tokens <- struct{}{}
	}
	return s
}

// Post increments the count, returning StatusOK on success. Post never
// blocks and never fails for a correctly paired semaphore (a semaphore whose
// Posts never exceed its configured max in-flight count).
func (s *CountingSemaphore) Post() Status {
	select {
	case s.tokens <- struct{}{}:
		return StatusOK
	default:
		// Over-Post is a caller contract violation (see NewCountingSemaphore's
		// max). Treat as a no-op success rather than block or panic, since
		// the FIFO layer must never block inside Post's call path.
		return StatusOK
	}
}

// Wait blocks until the count is > 0, then decrements it.
func (s *CountingSemaphore) Wait() Status {
	<-s.tokens
	return StatusOK
}

// TryWait decrements the count and returns nil if it was > 0, otherwise
// returns ErrWouldBlock without blocking.
func (s *CountingSemaphore) TryWait() error {
	select {
	case <-s.tokens:
		return nil
	default:
		return ErrWouldBlock
	}
}

// WaitTimed blocks until the count is > 0 or d elapses. Returns StatusOK on
// acquisition, StatusTimeout on expiry.
func (s *CountingSemaphore) WaitTimed(d time.Duration) Status {
	if d <= 0 {
		if err := s.TryWait(); err != nil {
			return StatusTimeout
		}
		return StatusOK
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.tokens:
		return StatusOK
	case <-timer.C:
		return StatusTimeout
	}
}

// Reset drains the count to zero. Unlike a naive "loop TryWait until it
// fails" implementation (which does not converge in bounded time under
// concurrent Posts — see spec.md §9 Open Question 3), Reset drains at most
// the channel's buffered length once, which always terminates.
func (s *CountingSemaphore) Reset() {
	n := len(s.tokens)
	for i := 0; i < n; i++ {
		select {
		case <-s.tokens:
		default:
			return
		}
	}
}

// Count returns the current count. Intended for tests and diagnostics; the
// FIFO layer never branches on this value.
func (s *CountingSemaphore) Count() int {
	return len(s.tokens)
}
