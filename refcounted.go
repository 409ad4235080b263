// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

// RefCounted is the two-function vtable a Command's payload is bound to:
// AddRef is called when a payload is attached or shared, Release is called
// when the last owner drops it. Implementations decide what "last owner"
// means for their own data (e.g. media.FrameRef clones on AddRef rather than
// sharing a refcount — see the media package).
type RefCounted interface {
	// AddRef is called with the payload pointer when it is attached to a
	// Command via SetData (and by FrameFifo/PacketFifo on Write/Preempt).
	// Command.AddRef and CommandPool.Acquire never call it. Returns the
	// pointer the caller should now treat as canonical — implementations
	// that clone-on-share return a different pointer than the one they
	// were given.
	AddRef(payload any) any
	// Release is called exactly once for each payload a Command drops: when
	// ClearData or Init clears it, when SetData replaces it, or when the
	// Command's last reference is released. Implementations that own
	// allocated resources (buffers, file handles) free them here.
	Release(payload any)
}
