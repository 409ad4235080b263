// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"fmt"
)

// ErrCycle is returned by Start when the graph's Connect calls form a cycle,
// so no topological start order exists.
var ErrCycle = errors.New("pipeline: graph contains a cycle")

// ErrPortTypeMismatch is returned by Connect when the source and destination
// ports carry different MediaTypes.
var ErrPortTypeMismatch = errors.New("pipeline: port type mismatch")

// ErrUnknownComponent is returned by Connect when either endpoint's
// component ID was never registered with AddComponent.
var ErrUnknownComponent = errors.New("pipeline: unknown component")

// ComponentError wraps an error a component's Run returned, identifying
// which component failed.
type ComponentError struct {
	ComponentID string
	Err         error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("pipeline: component %q: %v", e.ComponentID, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }

// AggregateError collects every ComponentError from a single Start/Run
// cycle, so a caller observes every stage that failed rather than only the
// first.
type AggregateError struct {
	Errors []*ComponentError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("pipeline: %d components failed:", len(e.Errors))
	for _, ce := range e.Errors {
		msg += " " + ce.Error() + ";"
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ce := range e.Errors {
		errs[i] = ce
	}
	return errs
}
