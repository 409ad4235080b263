// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package media defines the frame and packet payload types carried by
// avpipe Commands, along with their RefCounted vtables.
package media

// FrameFormat tags a decoded frame's pixel or sample layout.
type FrameFormat int32

const (
	FrameFormatUnknown FrameFormat = iota
	FrameFormatYUV420P
	FrameFormatRGBA
	FrameFormatS16LE
	FrameFormatFloatPlanar
)

// FrameHandle is a decoded media frame: either video (Width/Height valid,
// SampleCount zero) or audio (SampleCount valid, Width/Height zero).
type FrameHandle struct {
	PTS         int64
	Format      FrameFormat
	Width       int
	Height      int
	SampleCount int
	Data        []byte
}

// Clone returns a FrameHandle with its own independent backing buffer,
// sharing no memory with the receiver.
func (f *FrameHandle) Clone() *FrameHandle {
	cp := *f
	cp.Data = make([]byte, len(f.Data))
	copy(cp.Data, f.Data)
	return &cp
}

// FrameRef is the RefCounted vtable Commands carrying a *FrameHandle
// payload are bound to.
//
// AddRef deliberately clones rather than sharing a refcount: a FrameHandle's
// backing buffer is frequently reused in place by decoders between frames,
// so a bare refcount increment would let a second holder observe mutated
// data underneath it. This preserves the source design's documented
// open question about Frame/Packet semantics rather than silently "fixing"
// it into a shared-buffer scheme the decoder side does not expect.
var FrameRef frameRef

type frameRef struct{}

func (frameRef) AddRef(payload any) any {
	fh := payload.(*FrameHandle)
	return fh.Clone()
}

func (frameRef) Release(payload any) {
	fh := payload.(*FrameHandle)
	fh.Data = nil
}
