package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastkit/toastkit/internal/controller"
)

func TestApply_OfflineShowsPersistentWarning(t *testing.T) {
	ctrl := controller.New()
	s := New(nil)

	s.apply(ctrl, nmStateDisconnected)

	snap := ctrl.Snapshot()
	require.True(t, snap.Contains(offlineID))
	m, _ := snap.Get(offlineID)
	assert.True(t, m.Persistent)
	assert.Equal(t, GroupID, m.GroupID)
}

func TestApply_ReconnectWithdrawsAndAnnounces(t *testing.T) {
	ctrl := controller.New()
	s := New(nil)

	s.apply(ctrl, nmStateDisconnected)
	s.apply(ctrl, nmStateConnectedGlobal)

	snap := ctrl.Snapshot()
	assert.False(t, snap.Contains(offlineID))
	assert.True(t, snap.Contains(onlineID))
}

func TestApply_ConnectedWithoutPriorOfflineStaysQuiet(t *testing.T) {
	ctrl := controller.New()
	s := New(nil)

	s.apply(ctrl, nmStateConnectedGlobal)
	assert.True(t, ctrl.IsEmpty())
}

func TestApply_RepeatedOfflineDoesNotPileUp(t *testing.T) {
	ctrl := controller.New()
	s := New(nil)

	s.apply(ctrl, nmStateDisconnected)
	s.apply(ctrl, nmStateDisconnected)

	// Same id: the second show is spam-suppressed or replaces, never
	// a second live message.
	assert.Equal(t, 1, ctrl.Count())
}

func TestDispose_BeforeInitialize(t *testing.T) {
	s := New(nil)
	assert.NoError(t, s.Dispose())
}
