// Package display schedules auto-dismissal and turns the ordered
// message list into a render plan any backend can draw.
package display

import (
	"time"

	"github.com/toastkit/toastkit/internal/model"
)

// Anchor is the screen corner or edge the stack grows from.
type Anchor string

const (
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopRight     Anchor = "top-right"
	AnchorTopCenter    Anchor = "top-center"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomRight  Anchor = "bottom-right"
	AnchorBottomCenter Anchor = "bottom-center"
)

// ValidAnchors returns all valid anchor values.
func ValidAnchors() []Anchor {
	return []Anchor{
		AnchorTopLeft,
		AnchorTopRight,
		AnchorTopCenter,
		AnchorBottomLeft,
		AnchorBottomRight,
		AnchorBottomCenter,
	}
}

// IsBottom reports whether the anchor sits at the bottom edge, which
// flips the stacking direction.
func (a Anchor) IsBottom() bool {
	switch a {
	case AnchorBottomLeft, AnchorBottomRight, AnchorBottomCenter:
		return true
	default:
		return false
	}
}

// Layout holds the geometry knobs for plan building.
type Layout struct {
	Anchor     Anchor
	OffsetX    int // cells/pixels from the anchored edge
	OffsetY    int
	Width      int
	CardHeight int // height of one snackbar card
	Gap        int // gap between stacked cards
	MaxVisible int // cards drawn; the rest stay queued off-screen
}

// Timing holds animation timing as configuration data. The plan
// carries it through untouched; no easing logic lives in the core.
type Timing struct {
	SlideIn  time.Duration
	SlideOut time.Duration
	Easing   string
}

// DefaultTiming returns the stock animation timing.
func DefaultTiming() Timing {
	return Timing{
		SlideIn:  180 * time.Millisecond,
		SlideOut: 140 * time.Millisecond,
		Easing:   "ease-out",
	}
}

// Slot places one message in the rendered stack.
type Slot struct {
	Message model.Message
	Index   int // 0 = closest to the anchor
	OffsetX int
	OffsetY int
	// Fade is the depth weight in [0,1]: 1 at the front, shrinking
	// with stack depth. Backends interpolate colors/opacity with it.
	Fade float64
}

// RenderPlan is the full description of one frame of the stack.
type RenderPlan struct {
	Anchor Anchor
	Timing Timing
	Slots  []Slot
	// Hidden is how many live messages did not get a slot.
	Hidden int
}

// minimum depth weight so the deepest visible card stays readable
const minFade = 0.4

// BuildPlan maps the display-ordered message list onto positioned
// slots. Pure: same inputs, same plan.
func BuildPlan(ordered []model.Message, layout Layout, timing Timing) RenderPlan {
	visible := ordered
	hidden := 0
	if layout.MaxVisible > 0 && len(ordered) > layout.MaxVisible {
		visible = ordered[:layout.MaxVisible]
		hidden = len(ordered) - layout.MaxVisible
	}

	step := layout.CardHeight + layout.Gap
	fadeStep := 0.0
	if len(visible) > 1 {
		fadeStep = (1 - minFade) / float64(len(visible)-1)
	}

	slots := make([]Slot, 0, len(visible))
	for i, m := range visible {
		offsetY := layout.OffsetY + i*step
		if layout.Anchor.IsBottom() {
			offsetY = -offsetY
		}
		slots = append(slots, Slot{
			Message: m,
			Index:   i,
			OffsetX: layout.OffsetX,
			OffsetY: offsetY,
			Fade:    1 - float64(i)*fadeStep,
		})
	}

	return RenderPlan{
		Anchor: layout.Anchor,
		Timing: timing,
		Slots:  slots,
		Hidden: hidden,
	}
}
