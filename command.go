// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "code.hybscloud.com/atomix"

// CommandType tags a Command's payload kind. Values 0x1000 and above are
// reserved for application-defined user commands (spec.md §4.5).
type CommandType int32

const (
	CommandNone CommandType = iota
	CommandFrame
	CommandPacket
	CommandFlush
	CommandEndOfStream
	CommandSeek
	CommandConfig
)

// CommandUserBase is the first value available to application-defined
// command types.
const CommandUserBase CommandType = 0x1000

// Command is a pooled, reference-counted event object threaded through a
// pipeline: a media frame, a media packet, or one of a small set of control
// sentinels (flush, end-of-stream, seek, config change).
//
// Each reference to a Command has exactly one holder; passing it to a
// CommandFifo.Write transfers the caller's reference into the FIFO, and Read
// transfers it back out. AddRef creates an additional reference. Release
// returns the Command to its pool once the refcount drops to zero.
type Command struct {
	typ       CommandType
	payload   any
	payloadOf RefCounted

	PTS         int64
	StreamIndex int32
	Flags       uint32
	UserData    any

	pool     *CommandPool
	poolNext *Command // free-list link, valid only while pooled
	refcount atomix.Int32
}

// Init resets the command to an empty state of the given type, ready for
// SetData, releasing any attached payload through its vtable. Called by
// CommandPool.Acquire before returning a command to a
// caller. Init leaves refcount alone; CommandPool.Acquire is responsible
// for setting it to 1.
func (c *Command) Init(typ CommandType) {
	c.ClearData()
	c.typ = typ
	c.PTS = 0
	c.StreamIndex = 0
	c.Flags = 0
	c.UserData = nil
}

// Type returns the command's tag.
func (c *Command) Type() CommandType { return c.typ }

// IsSentinel reports whether the command is a control event carrying no
// media payload (flush or end-of-stream).
func (c *Command) IsSentinel() bool {
	switch c.typ {
	case CommandFlush, CommandEndOfStream:
		return true
	default:
		return false
	}
}

// IsMedia reports whether the command carries a frame or packet payload.
func (c *Command) IsMedia() bool {
	return c.typ == CommandFrame || c.typ == CommandPacket
}

// SetData attaches payload, bound to the given RefCounted vtable, AddRef'ing
// it through that vtable. Any previously attached payload is released first.
func (c *Command) SetData(payload any, vtable RefCounted) {
	c.ClearData()
	if vtable != nil && payload != nil {
		payload = vtable.AddRef(payload)
	}
	c.payload = payload
	c.payloadOf = vtable
}

// Data returns the attached payload, or nil if none is set.
func (c *Command) Data() any { return c.payload }

// ClearData releases any attached payload and clears it.
func (c *Command) ClearData() {
	if c.payloadOf != nil && c.payload != nil {
		c.payloadOf.Release(c.payload)
	}
	c.payload = nil
	c.payloadOf = nil
}

// AddRef increments the refcount and returns c, for call sites that want to
// hold a second reference to the same pooled Command (distinct from sharing
// its payload — see RefCounted).
func (c *Command) AddRef() *Command {
	c.refcount.AddAcqRel(1)
	return c
}

// Release decrements the refcount; at zero it clears the payload and returns
// the command to its pool.
func (c *Command) Release() {
	if c.refcount.AddAcqRel(-1) > 0 {
		return
	}
	c.ClearData()
	if c.pool != nil {
		c.pool.put(c)
	}
}
