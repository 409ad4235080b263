// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "github.com/avforge/avpipe/media"

// FrameFifo is a WaitableFifo[*media.FrameHandle] with clone-on-write,
// surrender-on-read semantics: Write takes a private clone of the caller's
// frame (the caller keeps ownership of the handle it passed in, free to
// mutate or reuse its backing buffer immediately), and Read hands out that
// clone with ownership transferred to the reader.
type FrameFifo struct {
	*WaitableFifo[*media.FrameHandle]
}

// NewFrameFifo creates a frame FIFO of the given capacity and mode.
func NewFrameFifo(capacity int, mode BufferMode, opts ...FifoOption[*media.FrameHandle]) *FrameFifo {
	return &FrameFifo{WaitableFifo: NewWaitableFifo[*media.FrameHandle](capacity, mode, opts...)}
}

// Write clones fr via media.FrameRef and pushes the clone, leaving the
// caller's handle untouched.
func (f *FrameFifo) Write(fr *media.FrameHandle) Status {
	return f.WaitableFifo.Write(media.FrameRef.AddRef(fr).(*media.FrameHandle))
}

// Preempt clones fr via media.FrameRef and inserts the clone at the head of
// the queue, ahead of anything already waiting.
func (f *FrameFifo) Preempt(fr *media.FrameHandle) Status {
	return f.WaitableFifo.Preempt(media.FrameRef.AddRef(fr).(*media.FrameHandle))
}

// Drain releases every frame still queued at shutdown.
func (f *FrameFifo) Drain() {
	for {
		fr, st := f.Read()
		if st != StatusOK || fr == nil {
			return
		}
		media.FrameRef.Release(fr)
	}
}
