// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// Status is a stable integer result code returned by every fallible FIFO
// operation. FIFO operations do not panic and never surface a raw OS error:
// any such error is treated as its nearest Status equivalent (timeout). The
// constructors (NewCircularBuffer, NewWaitableFifo and the FIFOs built on
// them) do panic on a capacity <= 0 rather than returning
// StatusInvalidParams.
//
// Values are fixed and must not be renumbered: they are compared directly by
// in-process consumers that may be compiled independently.
type Status int32

const (
	StatusOK            Status = 0
	StatusInvalidParams Status = 1
	StatusFlowDisabled  Status = 13
	StatusFifoFull      Status = 29
	StatusTimeout       Status = -1
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "avpipe: ok"
	case StatusInvalidParams:
		return "avpipe: invalid params"
	case StatusFlowDisabled:
		return "avpipe: flow disabled"
	case StatusFifoFull:
		return "avpipe: fifo full"
	case StatusTimeout:
		return "avpipe: timeout"
	default:
		return fmt.Sprintf("avpipe: status(%d)", int32(s))
	}
}

// Ok reports whether the status is StatusOK.
func (s Status) Ok() bool { return s == StatusOK }

// IsFlowDisabled reports whether err (or a Status) is StatusFlowDisabled.
func IsFlowDisabled(err error) bool {
	st, ok := err.(Status)
	return ok && st == StatusFlowDisabled
}

// IsFifoFull reports whether err (or a Status) is StatusFifoFull.
func IsFifoFull(err error) bool {
	st, ok := err.(Status)
	return ok && st == StatusFifoFull
}

// IsTimeout reports whether err (or a Status) is StatusTimeout.
func IsTimeout(err error) bool {
	st, ok := err.(Status)
	return ok && st == StatusTimeout
}

// ErrWouldBlock is the semantic "would block" error the underlying
// CountingSemaphore's TryWait returns. It is an alias for [iox.ErrWouldBlock]
// for ecosystem consistency with the rest of the pack's FIFO/pool libraries.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates a non-blocking operation could
// not proceed immediately. Delegates to [iox.IsWouldBlock].
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
