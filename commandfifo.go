// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

// CommandFifo is a WaitableFifo[*Command]: a thin, type-specific wrapper
// with ownership-transfer semantics — Write moves ownership of cmd into the
// FIFO, Read moves it back out to the caller.
type CommandFifo struct {
	*WaitableFifo[*Command]
}

// NewCommandFifo creates a command FIFO of the given capacity and mode.
func NewCommandFifo(capacity int, mode BufferMode, opts ...FifoOption[*Command]) *CommandFifo {
	return &CommandFifo{WaitableFifo: NewWaitableFifo[*Command](capacity, mode, opts...)}
}

// Drain releases every command still queued, intended for use at shutdown
// once a CommandFifo's flow has been permanently disabled and both ends have
// stopped reading/writing it.
func (f *CommandFifo) Drain() {
	for {
		cmd, st := f.Read()
		if st != StatusOK || cmd == nil {
			return
		}
		cmd.Release()
	}
}
