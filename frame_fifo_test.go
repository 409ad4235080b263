// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import (
	"testing"

	"github.com/avforge/avpipe/media"
)

func TestFrameFifoWriteRead(t *testing.T) {
	ff := NewFrameFifo(2, ModeSPSC)
	ff.SetFlowEnabled(true)
	fr := &media.FrameHandle{PTS: 1, Format: media.FrameFormatYUV420P, Width: 4, Height: 4, Data: make([]byte, 24)}
	if st := ff.Write(fr); st != StatusOK {
		t.Fatalf("write: %v", st)
	}
	got, st := ff.Read()
	if st != StatusOK {
		t.Fatalf("read: %v", st)
	}
	if got == fr {
		t.Fatal("read should surrender a private clone, not the caller's original pointer")
	}
	if got.PTS != fr.PTS || got.Format != fr.Format || len(got.Data) != len(fr.Data) {
		t.Fatalf("clone fields should match the original, got %+v want %+v", got, fr)
	}
}

func TestFrameRefCloneOnAddRef(t *testing.T) {
	fr := &media.FrameHandle{Data: []byte{1, 2, 3}}
	cloned := media.FrameRef.AddRef(fr).(*media.FrameHandle)
	if cloned == fr {
		t.Fatal("AddRef must return a distinct frame, not the same pointer")
	}
	cloned.Data[0] = 99
	if fr.Data[0] == 99 {
		t.Fatal("mutating the clone must not affect the original backing buffer")
	}
}

func TestFrameFifoDrain(t *testing.T) {
	ff := NewFrameFifo(4, ModeSPSC)
	ff.SetFlowEnabled(true)
	ff.Write(&media.FrameHandle{PTS: 1})
	ff.Write(&media.FrameHandle{PTS: 2})
	ff.SetFlowEnabled(false)
	ff.Drain()
	if ff.StoredCount() != 0 {
		t.Fatalf("want empty after drain, got %d", ff.StoredCount())
	}
}
