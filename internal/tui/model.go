// Package tui provides the BubbleTea-based demo host for the snackbar
// stack.
package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/toastkit/toastkit/internal/config"
	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/display"
	"github.com/toastkit/toastkit/internal/model"
)

// queueChangedMsg is emitted whenever the controller state changes.
type queueChangedMsg struct{}

// statusMsg updates the footer status line.
type statusMsg struct {
	text  string
	isErr bool
}

// Model is the demo TUI model. It is a plain display-layer consumer:
// everything it knows about the queue it reads back from the
// controller after a change notification.
type Model struct {
	cfg      *config.Config
	ctrl     *controller.Controller
	sched    *display.Scheduler
	renderer *display.Renderer
	keys     KeyMap
	help     help.Model

	// Modifiers applied to the next emitted message.
	priority   model.Priority
	persistent bool
	grouped    bool

	paused   bool
	counter  int
	lastShow time.Time

	width  int
	height int

	status    string
	statusErr bool

	changes     chan struct{}
	unsubscribe func()
}

// New creates the demo TUI model.
func New(cfg *config.Config, ctrl *controller.Controller, sched *display.Scheduler) *Model {
	m := &Model{
		cfg:      cfg,
		ctrl:     ctrl,
		sched:    sched,
		renderer: display.NewRenderer(cfg.Display.Width),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		priority: model.PriorityNormal,
		changes:  make(chan struct{}, 1),
	}
	m.unsubscribe = ctrl.Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange turns controller notifications into tea messages.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return queueChangedMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case queueChangedMsg:
		return m, m.waitForChange()

	case statusMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Info):
		m.emit(model.SeverityInfo, "Synced %d files")
	case key.Matches(msg, m.keys.Success):
		m.emit(model.SeveritySuccess, "Upload %d complete")
	case key.Matches(msg, m.keys.Warning):
		m.emit(model.SeverityWarning, "Disk almost full (%d%%)")
	case key.Matches(msg, m.keys.Error):
		m.emit(model.SeverityError, "Request %d failed")
	case key.Matches(msg, m.keys.Loading):
		m.emit(model.SeverityLoading, "Working on task %d…")

	case key.Matches(msg, m.keys.CyclePriority):
		m.priority = (m.priority + 1) % 4
		return m, status(fmt.Sprintf("next priority: %s", m.priority))
	case key.Matches(msg, m.keys.Persistent):
		m.persistent = !m.persistent
		return m, status(fmt.Sprintf("next persistent: %v", m.persistent))
	case key.Matches(msg, m.keys.Grouped):
		m.grouped = !m.grouped
		return m, status(fmt.Sprintf("next grouped: %v", m.grouped))

	case key.Matches(msg, m.keys.HideFront):
		if live := m.ctrl.Messages(); len(live) > 0 {
			m.ctrl.Hide(live[0].ID)
		}
	case key.Matches(msg, m.keys.HideGroup):
		m.ctrl.HideGroup("demo")
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearNonPersistent()
	case key.Matches(msg, m.keys.ClearAll):
		m.ctrl.ClearAll()

	case key.Matches(msg, m.keys.Pause):
		if m.paused {
			m.sched.Resume()
		} else {
			m.sched.Pause()
		}
		m.paused = !m.paused
		return m, status(fmt.Sprintf("auto-dismiss paused: %v", m.paused))

	case key.Matches(msg, m.keys.Export):
		return m, m.exportYAML()
	}

	return m, nil
}

// emit constructs and shows one demo message with the current
// modifiers.
func (m *Model) emit(severity model.Severity, textFmt string) {
	m.counter++
	m.lastShow = time.Now()

	msg := model.Message{
		Text:       fmt.Sprintf(textFmt, m.counter),
		Severity:   severity,
		Priority:   m.priority,
		Persistent: m.persistent,
		Duration:   m.cfg.DurationFor(severity),
	}
	if m.grouped {
		msg.GroupID = "demo"
	}
	if severity == model.SeverityError {
		msg.Actions = []model.Action{{Label: "Retry", Handler: func() {}}}
	}

	m.ctrl.Show(msg)
}

// exportYAML writes the current queue snapshot to a YAML file.
func (m *Model) exportYAML() tea.Cmd {
	messages := m.ctrl.Messages()
	return func() tea.Msg {
		data, err := yaml.Marshal(messages)
		if err != nil {
			return statusMsg{text: "failed to marshal YAML: " + err.Error(), isErr: true}
		}
		path := "toastd-queue.yaml"
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return statusMsg{text: "failed to write " + path + ": " + err.Error(), isErr: true}
		}
		return statusMsg{text: "queue exported to " + path}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

var (
	paneStyle = lipgloss.NewStyle().Faint(true)

	statusOKStyle  = lipgloss.NewStyle().Faint(true)
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"})
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	header := m.headerView()
	footer := m.footerView()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	stack := m.renderer.Render(display.BuildPlan(
		m.ctrl.Messages(),
		m.cfg.Layout(),
		m.cfg.RenderTiming(),
	))

	anchor := display.Anchor(m.cfg.Display.Anchor)
	body := lipgloss.Place(
		m.width, bodyHeight,
		anchorHorizontal(anchor), anchorVertical(anchor),
		stack,
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) headerView() string {
	state := fmt.Sprintf("live %d/%d  priority=%s persistent=%v grouped=%v",
		m.ctrl.Count(), controller.MaxTotal, m.priority, m.persistent, m.grouped)
	if m.paused {
		state += "  [paused]"
	}
	if !m.lastShow.IsZero() {
		state += "  last show " + humanize.Time(m.lastShow)
	}
	return paneStyle.Render(state)
}

func (m *Model) footerView() string {
	line := m.help.View(m.keys)
	if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		line = style.Render(m.status) + "\n" + line
	}
	return line
}

func anchorHorizontal(a display.Anchor) lipgloss.Position {
	switch a {
	case display.AnchorTopLeft, display.AnchorBottomLeft:
		return lipgloss.Left
	case display.AnchorTopCenter, display.AnchorBottomCenter:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

func anchorVertical(a display.Anchor) lipgloss.Position {
	if a.IsBottom() {
		return lipgloss.Bottom
	}
	return lipgloss.Top
}
