// Package ui renders a live view of a fix run.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"csfix/internal/engine"
)

// maxVisible bounds the file list; finder walks can be arbitrarily long.
const maxVisible = 10

type progressModel struct {
	title   string
	events  <-chan engine.Event
	spinner spinner.Model
	prog    progress.Model
	total   int
	items   []fileItem
	index   map[string]int
	counts  map[engine.Status]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status engine.Status
}

type eventMsg engine.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders fix progress.
// total is the number of files when known up front, or -1 for a finder walk.
func NewProgressModel(title string, total int, events <-chan engine.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		index:   make(map[string]int),
		counts:  make(map[engine.Status]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(engine.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%s)", m.title, m.summary())
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.items {
		status := string(item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(item.path, nameWidth)))
	}

	if m.total > 0 {
		b.WriteString("\n")
		if m.done {
			b.WriteString(m.prog.ViewAs(1.0))
		} else {
			b.WriteString(m.prog.View())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *progressModel) summary() string {
	finished := m.counts[engine.StatusChanged] + m.counts[engine.StatusClean] + m.counts[engine.StatusCached]
	parts := []string{}
	if m.total >= 0 {
		parts = append(parts, fmt.Sprintf("%d/%d files", finished, m.total))
	} else {
		parts = append(parts, fmt.Sprintf("%d files", finished))
	}
	if n := m.counts[engine.StatusChanged]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if n := m.counts[engine.StatusCached]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", n))
	}
	if n := m.counts[engine.StatusError]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	return strings.Join(parts, ", ")
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev engine.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	if idx, ok := m.index[ev.File]; ok {
		m.items[idx].status = ev.Status
	} else {
		m.items = append(m.items, fileItem{path: ev.File, status: ev.Status})
		if len(m.items) > maxVisible {
			m.items = m.items[len(m.items)-maxVisible:]
		}
		m.reindex()
	}
	if ev.Status != engine.StatusWorking {
		m.counts[ev.Status]++
	}
	if m.total <= 0 {
		return nil
	}
	finished := m.counts[engine.StatusChanged] + m.counts[engine.StatusClean] +
		m.counts[engine.StatusCached] + m.counts[engine.StatusError]
	return m.prog.SetPercent(float64(finished) / float64(m.total))
}

func (m *progressModel) reindex() {
	clear(m.index)
	for i, item := range m.items {
		m.index[item.path] = i
	}
}

func styleStatus(status engine.Status) lipgloss.Style {
	switch status {
	case engine.StatusChanged:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case engine.StatusClean, engine.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case engine.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case engine.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
