// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeComponent struct {
	id      string
	inputs  []Port
	outputs []Port
	runFn   func(ctx context.Context) error
}

func (c *fakeComponent) ID() string      { return c.id }
func (c *fakeComponent) Inputs() []Port  { return c.inputs }
func (c *fakeComponent) Outputs() []Port { return c.outputs }
func (c *fakeComponent) Run(ctx context.Context) error {
	if c.runFn != nil {
		return c.runFn(ctx)
	}
	<-ctx.Done()
	return nil
}

func TestGraphConnectRejectsTypeMismatch(t *testing.T) {
	g := NewGraph()
	g.AddComponent(&fakeComponent{id: "src", outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})
	g.AddComponent(&fakeComponent{id: "sink", inputs: []Port{{Name: "in", Type: MediaTypePacket}}})

	if err := g.Connect("src", "out", "sink", "in"); !errors.Is(err, ErrPortTypeMismatch) {
		t.Fatalf("want ErrPortTypeMismatch, got %v", err)
	}
}

func TestGraphConnectRejectsUnknownComponent(t *testing.T) {
	g := NewGraph()
	g.AddComponent(&fakeComponent{id: "src", outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})
	if err := g.Connect("src", "out", "ghost", "in"); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("want ErrUnknownComponent, got %v", err)
	}
}

func TestGraphStartStopsCleanlyOnCancel(t *testing.T) {
	g := NewGraph()
	g.AddComponent(&fakeComponent{id: "src", outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})
	g.AddComponent(&fakeComponent{id: "sink", inputs: []Port{{Name: "in", Type: MediaTypeFrame}}})
	if err := g.Connect("src", "out", "sink", "in"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if g.State() != StateRunning {
		t.Fatalf("want StateRunning, got %v", g.State())
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("want clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
	if g.State() != StateStopped {
		t.Fatalf("want StateStopped, got %v", g.State())
	}
}

func TestGraphStartReportsComponentFailure(t *testing.T) {
	g := NewGraph()
	failing := &fakeComponent{id: "bad", runFn: func(ctx context.Context) error {
		return errors.New("boom")
	}}
	g.AddComponent(failing)

	err := g.Start(context.Background())
	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("want *AggregateError, got %v (%T)", err, err)
	}
	if len(agg.Errors) != 1 || agg.Errors[0].ComponentID != "bad" {
		t.Fatalf("want one error from component %q, got %+v", "bad", agg.Errors)
	}
	if g.State() != StateFailed {
		t.Fatalf("want StateFailed, got %v", g.State())
	}
}

type preparingComponent struct {
	fakeComponent
	prepared *bool
}

func (c *preparingComponent) Prepare(ctx context.Context) error {
	*c.prepared = true
	return nil
}

func TestGraphStartRunsPrepareBeforeAnyRun(t *testing.T) {
	g := NewGraph()
	prepared := false
	g.AddComponent(&preparingComponent{
		fakeComponent: fakeComponent{id: "src", runFn: func(ctx context.Context) error {
			if !prepared {
				t.Error("Run started before Prepare completed")
			}
			<-ctx.Done()
			return nil
		}},
		prepared: &prepared,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if !prepared {
		t.Fatal("want Prepare to have run")
	}
}

type pausingComponent struct {
	fakeComponent
	paused *[]string
}

func (c *pausingComponent) Pause(ctx context.Context) error {
	*c.paused = append(*c.paused, c.id)
	return nil
}

func TestGraphPauseRunsForwardTopoOnPausersOnly(t *testing.T) {
	g := NewGraph()
	var paused []string
	g.AddComponent(&pausingComponent{
		fakeComponent: fakeComponent{id: "src", outputs: []Port{{Name: "out", Type: MediaTypeFrame}}},
		paused:        &paused,
	})
	g.AddComponent(&fakeComponent{id: "mid",
		inputs:  []Port{{Name: "in", Type: MediaTypeFrame}},
		outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})
	g.AddComponent(&pausingComponent{
		fakeComponent: fakeComponent{id: "sink", inputs: []Port{{Name: "in", Type: MediaTypeFrame}}},
		paused:        &paused,
	})
	if err := g.Connect("src", "out", "mid", "in"); err != nil {
		t.Fatalf("connect src->mid: %v", err)
	}
	if err := g.Connect("mid", "out", "sink", "in"); err != nil {
		t.Fatalf("connect mid->sink: %v", err)
	}

	if err := g.Pause(context.Background()); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if len(paused) != 2 || paused[0] != "src" || paused[1] != "sink" {
		t.Fatalf("want [src sink] in forward-topo order, got %v", paused)
	}
}

type parameterizedComponent struct {
	fakeComponent
	params map[string]*ParamValue
}

func (c *parameterizedComponent) Params() map[string]*ParamValue { return c.params }

func TestGraphSetParamAndGetParamRouteByDottedPath(t *testing.T) {
	g := NewGraph()
	bitrate := NewParamValue("bitrate", 128000.0).WithRange(32000, 320000)
	g.AddComponent(&parameterizedComponent{
		fakeComponent: fakeComponent{id: "encoder"},
		params:        map[string]*ParamValue{"bitrate": bitrate},
	})

	if err := g.SetParam("encoder.bitrate", 192000.0); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	got, err := g.GetParam("encoder.bitrate")
	if err != nil {
		t.Fatalf("GetParam: %v", err)
	}
	if got.Value() != 192000.0 {
		t.Fatalf("want 192000.0, got %v", got.Value())
	}

	if err := g.SetParam("encoder.bitrate", 999999.0); err == nil {
		t.Fatal("want range validation to reject an out-of-range set")
	}
	if _, err := g.GetParam("ghost.bitrate"); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("want ErrUnknownComponent for unregistered component, got %v", err)
	}
	if _, err := g.GetParam("encoder.framerate"); err == nil {
		t.Fatal("want error for unregistered parameter key")
	}
}

func TestGraphTopoOrderRejectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddComponent(&fakeComponent{id: "a",
		inputs:  []Port{{Name: "in", Type: MediaTypeFrame}},
		outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})
	g.AddComponent(&fakeComponent{id: "b",
		inputs:  []Port{{Name: "in", Type: MediaTypeFrame}},
		outputs: []Port{{Name: "out", Type: MediaTypeFrame}}})

	if err := g.Connect("a", "out", "b", "in"); err != nil {
		t.Fatalf("connect a->b: %v", err)
	}
	if err := g.Connect("b", "out", "a", "in"); err != nil {
		t.Fatalf("connect b->a: %v", err)
	}

	if _, err := g.levelOrder(); !errors.Is(err, ErrCycle) {
		t.Fatalf("want ErrCycle, got %v", err)
	}
}
