package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastkit/toastkit/internal/model"
)

func testLayout(anchor Anchor) Layout {
	return Layout{
		Anchor:     anchor,
		OffsetX:    2,
		OffsetY:    1,
		Width:      40,
		CardHeight: 3,
		Gap:        1,
		MaxVisible: 3,
	}
}

func planMessages(n int) []model.Message {
	msgs := make([]model.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, model.Message{ID: string(rune('a' + i)), Seq: uint64(i + 1)})
	}
	return msgs
}

func TestBuildPlan_Empty(t *testing.T) {
	plan := BuildPlan(nil, testLayout(AnchorTopRight), DefaultTiming())
	assert.Empty(t, plan.Slots)
	assert.Zero(t, plan.Hidden)
}

func TestBuildPlan_Offsets(t *testing.T) {
	plan := BuildPlan(planMessages(2), testLayout(AnchorTopRight), DefaultTiming())
	require.Len(t, plan.Slots, 2)

	assert.Equal(t, 0, plan.Slots[0].Index)
	assert.Equal(t, 2, plan.Slots[0].OffsetX)
	assert.Equal(t, 1, plan.Slots[0].OffsetY)

	// Second card sits one card height plus gap further out.
	assert.Equal(t, 1+3+1, plan.Slots[1].OffsetY)
}

func TestBuildPlan_BottomAnchorFlipsDirection(t *testing.T) {
	plan := BuildPlan(planMessages(2), testLayout(AnchorBottomLeft), DefaultTiming())
	require.Len(t, plan.Slots, 2)
	assert.Equal(t, -1, plan.Slots[0].OffsetY)
	assert.Equal(t, -(1 + 3 + 1), plan.Slots[1].OffsetY)
}

func TestBuildPlan_FadeByDepth(t *testing.T) {
	plan := BuildPlan(planMessages(3), testLayout(AnchorTopRight), DefaultTiming())
	require.Len(t, plan.Slots, 3)

	assert.InDelta(t, 1.0, plan.Slots[0].Fade, 1e-9)
	assert.Greater(t, plan.Slots[0].Fade, plan.Slots[1].Fade)
	assert.Greater(t, plan.Slots[1].Fade, plan.Slots[2].Fade)
	assert.InDelta(t, minFade, plan.Slots[2].Fade, 1e-9)
}

func TestBuildPlan_CapsVisible(t *testing.T) {
	plan := BuildPlan(planMessages(5), testLayout(AnchorTopRight), DefaultTiming())
	assert.Len(t, plan.Slots, 3)
	assert.Equal(t, 2, plan.Hidden)
}

func TestBuildPlan_Pure(t *testing.T) {
	msgs := planMessages(4)
	layout := testLayout(AnchorTopCenter)
	timing := Timing{SlideIn: time.Second, SlideOut: time.Second, Easing: "linear"}

	a := BuildPlan(msgs, layout, timing)
	b := BuildPlan(msgs, layout, timing)
	assert.Equal(t, a, b)
	assert.Equal(t, timing, a.Timing)
}

func TestAnchor_IsBottom(t *testing.T) {
	assert.True(t, AnchorBottomRight.IsBottom())
	assert.True(t, AnchorBottomCenter.IsBottom())
	assert.False(t, AnchorTopLeft.IsBottom())
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(30)

	msgs := []model.Message{
		{ID: "a", Text: "saved", Severity: model.SeveritySuccess, Seq: 1},
		{ID: "b", Text: "retry?", Severity: model.SeverityError, Seq: 2, Actions: []model.Action{{Label: "Retry"}}},
	}
	plan := BuildPlan(msgs, testLayout(AnchorTopRight), DefaultTiming())

	out := r.Render(plan)
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "retry?")
	assert.Contains(t, out, "[Retry]")
}

func TestRenderer_Overflow(t *testing.T) {
	r := NewRenderer(30)
	plan := BuildPlan(planMessages(5), testLayout(AnchorTopRight), DefaultTiming())
	out := r.Render(plan)
	assert.Contains(t, out, "+2 more")
}

func TestRenderer_EmptyPlan(t *testing.T) {
	r := NewRenderer(30)
	assert.Empty(t, r.Render(RenderPlan{}))
}
