// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"sync"
)

// ParamValue is a named, typed runtime-tunable value (bitrate, frame rate,
// filter strength, ...) with an optional allowed range or option set and a
// change callback fired on every successful Set.
type ParamValue struct {
	mu       sync.Mutex
	name     string
	value    any
	min, max float64
	hasRange bool
	options  []any
	onChange func(name string, value any)
}

// NewParamValue creates a parameter named name with the given initial
// value and no range/option restriction.
func NewParamValue(name string, initial any) *ParamValue {
	return &ParamValue{name: name, value: initial}
}

// WithRange restricts a numeric ParamValue to [min, max], inclusive.
func (p *ParamValue) WithRange(min, max float64) *ParamValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.min, p.max = min, max
	p.hasRange = true
	return p
}

// WithOptions restricts a ParamValue to one of a fixed set of values.
func (p *ParamValue) WithOptions(options ...any) *ParamValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = options
	return p
}

// OnChange installs a callback invoked after every successful Set.
func (p *ParamValue) OnChange(fn func(name string, value any)) *ParamValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
	return p
}

// Name returns the name the parameter was created with.
func (p *ParamValue) Name() string { return p.name }

// Value returns the parameter's current value.
func (p *ParamValue) Value() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set validates v against the configured range/options (if any) and, on
// success, stores it and invokes the change callback.
func (p *ParamValue) Set(v any) error {
	p.mu.Lock()
	if p.hasRange {
		f, ok := toFloat(v)
		if !ok || f < p.min || f > p.max {
			p.mu.Unlock()
			return fmt.Errorf("pipeline: param %q: value %v out of range [%v,%v]", p.name, v, p.min, p.max)
		}
	}
	if len(p.options) > 0 {
		found := false
		for _, o := range p.options {
			if o == v {
				found = true
				break
			}
		}
		if !found {
			p.mu.Unlock()
			return fmt.Errorf("pipeline: param %q: value %v not in allowed set", p.name, v)
		}
	}
	p.value = v
	onChange := p.onChange
	p.mu.Unlock()
	if onChange != nil {
		onChange(p.name, v)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ParamSet is a collection of ParamValues keyed by each parameter's Name.
type ParamSet struct {
	mu     sync.RWMutex
	params map[string]*ParamValue
}

// NewParamSet creates an empty parameter set.
func NewParamSet() *ParamSet {
	return &ParamSet{params: make(map[string]*ParamValue)}
}

// Register adds p to the set, keyed by its own Name.
func (s *ParamSet) Register(p *ParamValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[p.Name()] = p
}

// Get returns the named parameter, or nil if it was never registered.
func (s *ParamSet) Get(name string) *ParamValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params[name]
}
