package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/toastkit/toastkit/internal/model"
)

// severity colors, blended toward the background as cards recede
var severityColors = map[model.Severity]lipgloss.AdaptiveColor{
	model.SeverityInfo:    {Light: "#1e66f5", Dark: "#89b4fa"},
	model.SeveritySuccess: {Light: "#40a02b", Dark: "#a6e3a1"},
	model.SeverityWarning: {Light: "#df8e1d", Dark: "#f9e2af"},
	model.SeverityError:   {Light: "#d20f39", Dark: "#f38ba8"},
	model.SeverityLoading: {Light: "#7c7f93", Dark: "#9399b2"},
}

var severityIcons = map[model.Severity]string{
	model.SeverityInfo:    "i",
	model.SeveritySuccess: "✓",
	model.SeverityWarning: "!",
	model.SeverityError:   "✗",
	model.SeverityLoading: "…",
}

// Renderer draws a RenderPlan as styled terminal lines. Severity to
// color/icon mapping lives here, outside the queue core.
type Renderer struct {
	width int
}

// NewRenderer creates a renderer producing cards of the given width.
func NewRenderer(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	return &Renderer{width: width}
}

// Render returns the stack as a single string, one card per slot,
// ordered from the anchor outward.
func (r *Renderer) Render(plan RenderPlan) string {
	if len(plan.Slots) == 0 {
		return ""
	}

	cards := make([]string, 0, len(plan.Slots)+1)
	for _, slot := range plan.Slots {
		cards = append(cards, r.renderCard(slot))
	}
	if plan.Hidden > 0 {
		cards = append(cards, r.renderOverflow(plan.Hidden))
	}

	// Bottom anchors grow upward: the front card goes last.
	if plan.Anchor.IsBottom() {
		for i, j := 0, len(cards)-1; i < j; i, j = i+1, j-1 {
			cards[i], cards[j] = cards[j], cards[i]
		}
	}

	return strings.Join(cards, "\n")
}

// renderCard draws one snackbar card, dimmed by its depth weight.
func (r *Renderer) renderCard(slot Slot) string {
	m := slot.Message
	color := severityColors[m.Severity]

	style := lipgloss.NewStyle().
		Width(r.width).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
	if slot.Fade < 0.7 {
		style = style.Faint(true)
	}

	icon := lipgloss.NewStyle().Foreground(color).Render(severityIcons[m.Severity])
	line := fmt.Sprintf("%s %s", icon, m.Text)

	if len(m.Actions) > 0 {
		labels := make([]string, 0, len(m.Actions))
		for _, a := range m.Actions {
			labels = append(labels, "["+a.Label+"]")
		}
		actionStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
		line += "  " + actionStyle.Render(strings.Join(labels, " "))
	}

	return style.Render(line)
}

func (r *Renderer) renderOverflow(hidden int) string {
	return lipgloss.NewStyle().
		Width(r.width).
		Faint(true).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("+%d more", hidden))
}
