package display

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "condition not met in time")
}

func TestScheduler_AutoDismiss(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "a", Duration: 20 * time.Millisecond})
	assert.Equal(t, 1, s.PendingTimers())

	waitFor(t, func() bool { return ctrl.IsEmpty() })
	assert.Equal(t, 0, s.PendingTimers())
}

func TestScheduler_PersistentAndLoadingGetNoTimer(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "p", Persistent: true})
	ctrl.Show(model.Message{ID: "l", Severity: model.SeverityLoading})

	assert.Equal(t, 0, s.PendingTimers())
	assert.Equal(t, 2, ctrl.Count())
}

func TestScheduler_HideCancelsTimer(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "a", Duration: time.Minute})
	require.Equal(t, 1, s.PendingTimers())

	ctrl.Hide("a")
	assert.Equal(t, 0, s.PendingTimers())
}

func TestScheduler_UpdateReplacesTimer(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "a", Duration: 15 * time.Millisecond})
	// The update re-arms with a long duration; the stale short timer
	// must not remove the successor.
	ctrl.Update("a", model.Message{ID: "a", Text: "updated", Duration: time.Minute})

	time.Sleep(60 * time.Millisecond)
	got := ctrl.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "updated", got[0].Text)
	assert.Equal(t, 1, s.PendingTimers())
}

func TestScheduler_OnAdmitHook(t *testing.T) {
	ctrl := controller.New()

	var mu sync.Mutex
	var admitted []string
	s := NewScheduler(ctrl, WithOnAdmit(func(m model.Message) {
		mu.Lock()
		admitted = append(admitted, m.ID)
		mu.Unlock()
	}))
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "p", Persistent: true})
	ctrl.Update("p", model.Message{ID: "p", Text: "again", Persistent: true})
	ctrl.Hide("p")
	// Hide must not fire the hook.

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"p", "p"}, admitted)
}

func TestScheduler_PauseResume(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()
	defer s.Stop()

	ctrl.Show(model.Message{ID: "a", Duration: 20 * time.Millisecond})
	s.Pause()
	assert.Equal(t, 0, s.PendingTimers())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, ctrl.Count(), "paused message must not expire")

	s.Resume()
	waitFor(t, func() bool { return ctrl.IsEmpty() })
}

func TestScheduler_StopCancelsEverything(t *testing.T) {
	ctrl := controller.New()
	s := NewScheduler(ctrl)
	s.Start()

	ctrl.Show(model.Message{ID: "a", Duration: 10 * time.Millisecond})
	s.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, ctrl.Count(), "stopped scheduler must not dismiss")
}
