package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelTickAdvancesFrameUntilDone(t *testing.T) {
	m := newModel(context.Background(), func() {}, "migrate", nil)
	_, cmd := m.Update(tickMsg(time.Now()))
	if m.frame != 1 || cmd == nil {
		t.Fatalf("expected frame advance and next tick, frame=%d cmd=%v", m.frame, cmd)
	}

	_, cmd = m.Update(doneMsg{details: []string{"tables: 11"}})
	if !m.done || cmd == nil {
		t.Fatal("expected done with quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message after done")
	}

	_, cmd = m.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Fatal("expected ticking to stop once done")
	}
}

func TestModelCtrlCCancelsTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newModel(ctx, cancel, "seed", nil)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if ctx.Err() == nil {
		t.Fatal("expected ctrl+c to cancel the task context")
	}
}

func TestModelRunReportsTaskResult(t *testing.T) {
	wantErr := errors.New("boom")
	m := newModel(context.Background(), func() {}, "keygen", func(context.Context) ([]string, error) {
		return []string{"step one"}, wantErr
	})
	msg, ok := m.run().(doneMsg)
	if !ok {
		t.Fatal("expected doneMsg from run")
	}
	if !errors.Is(msg.err, wantErr) || len(msg.details) != 1 {
		t.Fatalf("unexpected result: %+v", msg)
	}
}

func TestViewShowsSpinnerThenSummary(t *testing.T) {
	m := newModel(context.Background(), func() {}, "migrate", nil)
	start := time.Now()
	m.started = start
	m.now = func() time.Time { return start.Add(1500 * time.Millisecond) }
	if v := m.View(); !strings.Contains(v, "migrate") || !strings.Contains(v, "1.5s") {
		t.Fatalf("unexpected running view %q", v)
	}
	m.Update(doneMsg{details: []string{"applied"}})
	if v := m.View(); !strings.Contains(v, "OK") || !strings.Contains(v, "applied") {
		t.Fatalf("unexpected final view %q", v)
	}
}

func TestRunPlainPrintsSummary(t *testing.T) {
	var out bytes.Buffer
	_, err := RunPlain(context.Background(), &out, "create-user", func(context.Context) ([]string, error) {
		return []string{"user admin"}, errors.New("duplicate")
	})
	if err == nil {
		t.Fatal("expected task error to be returned")
	}
	got := out.String()
	for _, want := range []string{"FAIL", "create-user", "user admin", "error: duplicate"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}
