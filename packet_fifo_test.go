// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import (
	"testing"

	"github.com/avforge/avpipe/media"
)

func TestPacketFifoWriteRead(t *testing.T) {
	pf := NewPacketFifo(2, ModeSPSC)
	pf.SetFlowEnabled(true)
	pk := &media.PacketHandle{PTS: 10, StreamIndex: 0, Data: []byte{1, 2, 3}}
	pf.Write(pk)
	got, st := pf.Read()
	if st != StatusOK {
		t.Fatalf("read: %v", st)
	}
	if got == pk {
		t.Fatal("read should surrender a private clone, not the caller's original pointer")
	}
	if got.PTS != pk.PTS || got.StreamIndex != pk.StreamIndex || len(got.Data) != len(pk.Data) {
		t.Fatalf("clone fields should match the original, got %+v want %+v", got, pk)
	}
}

func TestPacketRefCloneOnAddRef(t *testing.T) {
	pk := &media.PacketHandle{Data: []byte{1, 2, 3}}
	cloned := media.PacketRef.AddRef(pk).(*media.PacketHandle)
	if cloned == pk {
		t.Fatal("AddRef must clone, not alias")
	}
}
