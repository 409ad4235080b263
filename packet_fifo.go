// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "github.com/avforge/avpipe/media"

// PacketFifo is a WaitableFifo[*media.PacketHandle], the encoded-side
// counterpart to FrameFifo: clone-on-write, surrender-on-read.
type PacketFifo struct {
	*WaitableFifo[*media.PacketHandle]
}

// NewPacketFifo creates a packet FIFO of the given capacity and mode.
func NewPacketFifo(capacity int, mode BufferMode, opts ...FifoOption[*media.PacketHandle]) *PacketFifo {
	return &PacketFifo{WaitableFifo: NewWaitableFifo[*media.PacketHandle](capacity, mode, opts...)}
}

// Write clones pk via media.PacketRef and pushes the clone, leaving the
// caller's handle untouched.
func (f *PacketFifo) Write(pk *media.PacketHandle) Status {
	return f.WaitableFifo.Write(media.PacketRef.AddRef(pk).(*media.PacketHandle))
}

// Preempt clones pk via media.PacketRef and inserts the clone at the head
// of the queue, ahead of anything already waiting.
func (f *PacketFifo) Preempt(pk *media.PacketHandle) Status {
	return f.WaitableFifo.Preempt(media.PacketRef.AddRef(pk).(*media.PacketHandle))
}

// Drain releases every packet still queued at shutdown.
func (f *PacketFifo) Drain() {
	for {
		pk, st := f.Read()
		if st != StatusOK || pk == nil {
			return
		}
		media.PacketRef.Release(pk)
	}
}
