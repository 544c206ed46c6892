// Package ui renders operator tasks with a spinner while they run and a
// styled summary when they finish.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Task does the work and returns human-readable detail lines.
type Task func(ctx context.Context) ([]string, error)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	detailStyle = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
	spinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 90 * time.Millisecond

type tickMsg time.Time

type doneMsg struct {
	details []string
	err     error
}

type model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	title   string
	task    Task
	frame   int
	started time.Time
	now     func() time.Time

	done    bool
	details []string
	err     error
}

func newModel(ctx context.Context, cancel context.CancelFunc, title string, task Task) *model {
	return &model{ctx: ctx, cancel: cancel, title: title, task: task, started: time.Now(), now: time.Now}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(tick(), m.run)
}

func (m *model) run() tea.Msg {
	details, err := m.task(m.ctx)
	return doneMsg{details: details, err: err}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(frames)
		return m, tick()
	case doneMsg:
		m.done = true
		m.details = msg.details
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		// The task sees the cancellation and reports back through doneMsg.
		if msg.String() == "ctrl+c" {
			m.cancel()
		}
	}
	return m, nil
}

func (m *model) View() string {
	if m.done {
		return Summary(m.title, m.details, m.err) + "\n"
	}
	elapsed := m.now().Sub(m.started).Round(100 * time.Millisecond)
	return fmt.Sprintf("%s %s %s\n", spinStyle.Render(frames[m.frame]), titleStyle.Render(m.title), detailStyle.Render(elapsed.String()))
}

// Run executes task under an interactive spinner. Ctrl+C cancels the task's
// context.
func Run(title string, task Task) ([]string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	final, err := tea.NewProgram(newModel(ctx, cancel, title, task)).Run()
	if err != nil {
		return nil, fmt.Errorf("run ui: %w", err)
	}
	m, ok := final.(*model)
	if !ok {
		return nil, fmt.Errorf("run ui: unexpected model %T", final)
	}
	return m.details, m.err
}

// RunPlain executes task without a terminal UI and prints the summary to w.
// Use it for CI and non-interactive shells.
func RunPlain(ctx context.Context, w io.Writer, title string, task Task) ([]string, error) {
	details, err := task(ctx)
	fmt.Fprintln(w, Summary(title, details, err))
	return details, err
}

// Summary renders the outcome line followed by one indented line per detail.
func Summary(title string, details []string, err error) string {
	var b strings.Builder
	if err != nil {
		b.WriteString(failStyle.Render("FAIL") + " " + titleStyle.Render(title))
	} else {
		b.WriteString(okStyle.Render("OK") + " " + titleStyle.Render(title))
	}
	for _, d := range details {
		b.WriteString("\n" + detailStyle.Render(d))
	}
	if err != nil {
		b.WriteString("\n" + detailStyle.Render("error: "+err.Error()))
	}
	return b.String()
}
