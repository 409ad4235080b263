// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package media

// PacketHandle is an encoded (still-muxed or demuxed) media packet: a PTS/
// DTS-stamped byte payload tagged with the stream it belongs to.
type PacketHandle struct {
	PTS         int64
	DTS         int64
	StreamIndex int32
	KeyFrame    bool
	Data        []byte
}

// Clone returns a PacketHandle with its own independent backing buffer.
func (p *PacketHandle) Clone() *PacketHandle {
	cp := *p
	cp.Data = make([]byte, len(p.Data))
	copy(cp.Data, p.Data)
	return &cp
}

// PacketRef is the RefCounted vtable Commands carrying a *PacketHandle
// payload are bound to. Like FrameRef, AddRef clones instead of sharing a
// refcount, for the same reuse-in-place reason documented on FrameRef.
var PacketRef packetRef

type packetRef struct{}

func (packetRef) AddRef(payload any) any {
	ph := payload.(*PacketHandle)
	return ph.Clone()
}

func (packetRef) Release(payload any) {
	ph := payload.(*PacketHandle)
	ph.Data = nil
}
