// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipeline assembles avpipe FIFOs and Commands into a directed graph
// of components with an ordered start/stop lifecycle.
package pipeline

import "context"

// MediaType tags what a Port carries, used to reject mismatched Connects at
// graph-build time rather than at run time.
type MediaType int32

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeFrame
	MediaTypePacket
	MediaTypeCommand
)

// Port is a named, typed connection point on a Component.
type Port struct {
	Name string
	Type MediaType
}

// Component is a single pipeline stage: a source (no inputs), a processor
// (inputs and outputs), or a sink (no outputs). Run must block until ctx is
// cancelled or the component has nothing further to do (e.g. it observed an
// end-of-stream sentinel on every input).
type Component interface {
	// ID identifies the component within its graph; must be unique.
	ID() string
	// Inputs lists the ports other components may Connect to.
	Inputs() []Port
	// Outputs lists the ports this component writes to once started.
	Outputs() []Port
	// Run blocks until ctx is cancelled or the component's work is done.
	Run(ctx context.Context) error
}

// Preparer is an optional Component extension: Prepare runs once per
// component, before any component's Run is started, in no particular
// order. Components that need to allocate buffers or open resources before
// the graph starts moving data implement this; components without setup
// needs simply don't implement it.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Pauser is an optional Component extension: Pause asks a running component
// to suspend its work without tearing it down — unlike Stop, Run keeps
// blocking and the component is expected to resume processing on its own
// once whatever condition it is pausing for (e.g. a downstream FIFO backing
// up) clears. Components without a pause-specific behavior simply don't
// implement it; Graph.Pause skips them.
type Pauser interface {
	Pause(ctx context.Context) error
}

// Parameterized is an optional Component extension exposing runtime-tunable
// values (bitrate, filter strength, ...) keyed by parameter name. Graph
// routes dotted "componentId.parameterKey" addressing (§6) to whichever
// component implements it; components with nothing to tune simply don't
// implement it.
type Parameterized interface {
	Params() map[string]*ParamValue
}

// State is a Pipeline's current lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
