package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/model"
)

type fakeSource struct {
	name        string
	initErr     error
	initPanic   bool
	disposeErr  error
	initCalls   int
	disposeCall int
	ctrl        *controller.Controller
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Initialize(_ context.Context, ctrl *controller.Controller) error {
	f.initCalls++
	f.ctrl = ctrl
	if f.initPanic {
		panic("boom")
	}
	return f.initErr
}

func (f *fakeSource) Dispose() error {
	f.disposeCall++
	return f.disposeErr
}

func TestSet_InitializeAll(t *testing.T) {
	ctrl := controller.New()
	a := &fakeSource{name: "a"}
	b := &fakeSource{name: "b"}
	set := NewSet(nil, a, b)

	set.InitializeAll(context.Background(), ctrl)
	assert.Equal(t, 1, a.initCalls)
	assert.Equal(t, 1, b.initCalls)
	assert.Same(t, ctrl, a.ctrl)

	// A second pass must not re-initialize attempted sources.
	set.InitializeAll(context.Background(), ctrl)
	assert.Equal(t, 1, a.initCalls)
	assert.Equal(t, 1, b.initCalls)
}

func TestSet_FaultsAreContained(t *testing.T) {
	ctrl := controller.New()
	failing := &fakeSource{name: "failing", initErr: errors.New("no bus")}
	panicking := &fakeSource{name: "panicking", initPanic: true}
	healthy := &fakeSource{name: "healthy"}
	set := NewSet(nil, failing, panicking, healthy)

	assert.NotPanics(t, func() {
		set.InitializeAll(context.Background(), ctrl)
	})
	// The healthy source still initialized.
	assert.Equal(t, 1, healthy.initCalls)
	// Failed sources count as attempted, no retry.
	set.InitializeAll(context.Background(), ctrl)
	assert.Equal(t, 1, failing.initCalls)
	assert.Equal(t, 1, panicking.initCalls)
}

func TestSet_DisposeAll(t *testing.T) {
	ctrl := controller.New()
	a := &fakeSource{name: "a"}
	b := &fakeSource{name: "b", disposeErr: errors.New("already closed")}
	set := NewSet(nil, a, b)

	set.InitializeAll(context.Background(), ctrl)
	assert.NotPanics(t, set.DisposeAll)
	assert.Equal(t, 1, a.disposeCall)
	assert.Equal(t, 1, b.disposeCall)

	// After disposal the set may be initialized again.
	set.InitializeAll(context.Background(), ctrl)
	assert.Equal(t, 2, a.initCalls)
}

func TestSet_SourceCanDriveController(t *testing.T) {
	ctrl := controller.New()
	pusher := &pushOnInit{}
	set := NewSet(nil, pusher)

	set.InitializeAll(context.Background(), ctrl)
	assert.Equal(t, 1, ctrl.Count())
}

type pushOnInit struct{}

func (p *pushOnInit) Name() string { return "push-on-init" }

func (p *pushOnInit) Initialize(_ context.Context, ctrl *controller.Controller) error {
	ctrl.Show(model.Message{ID: "hello", Text: "hello"})
	return nil
}

func (p *pushOnInit) Dispose() error { return nil }
