package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewIssue(t *testing.T) {
	tests := []struct {
		msg, loc, text string
	}{
		{"Layer 2: Path 0: Command 5: expected 2 coordinates, got 1", "Layer 2: Path 0: Command 5", "expected 2 coordinates, got 1"},
		{"Layout: unknown region \"sidebar\"", "Layout", "unknown region \"sidebar\""},
		{"missing required field version", "", "missing required field version"},
	}
	for _, tt := range tests {
		got := newIssue(SeverityError, tt.msg)
		if got.Location != tt.loc || got.Message != tt.text {
			t.Errorf("newIssue(%q) = %q / %q, want %q / %q", tt.msg, got.Location, got.Message, tt.loc, tt.text)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m IssueListModel, keys ...string) IssueListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(IssueListModel)
	}
	return m
}

func TestIssueListModel(t *testing.T) {
	issues := collectIssues(
		[]string{"Layer 0: bad", "Layer 1: worse"},
		[]string{"Layer 2: Path 0: clamped"},
	)
	m := NewIssueListModel("Issues", issues)
	if len(m.Visible()) != 3 {
		t.Fatalf("Visible() = %d, want 3", len(m.Visible()))
	}

	m = press(m, "down", "j", "j")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped at the end)", m.Cursor)
	}
	m = press(m, "k")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	m = press(m, "tab")
	if m.Filter != filterErrors || len(m.Visible()) != 2 || m.Cursor != 0 {
		t.Errorf("errors filter: %s, %d visible, cursor %d", m.Filter, len(m.Visible()), m.Cursor)
	}
	m = press(m, "tab")
	if len(m.Visible()) != 1 || m.Visible()[0].Severity != SeverityWarning {
		t.Errorf("warnings filter = %+v", m.Visible())
	}
	if len(m.Issues) != 3 {
		t.Error("filtering modified Issues")
	}
	m = press(m, "tab")
	if m.Filter != filterAll {
		t.Errorf("Filter = %s, want all", m.Filter)
	}
}

func TestIssueListModelScroll(t *testing.T) {
	var errs []string
	for range 10 {
		errs = append(errs, "Layer 0: bad")
	}
	m := NewIssueListModel("Issues", collectIssues(errs, nil))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = next.(IssueListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	m = press(m, "j", "j", "j", "j", "j", "j")
	if m.Cursor != 6 || m.Offset != 2 {
		t.Errorf("Cursor, Offset = %d, %d, want 6, 2", m.Cursor, m.Offset)
	}
}

func TestIssueListModelView(t *testing.T) {
	m := NewIssueListModel("Issues: logo.json", collectIssues([]string{"Layer 0: Path 1: bad"}, nil))
	view := m.View()
	for _, want := range []string{"Issues: logo.json", "Layer 0: Path 1", "bad", "[1/1]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	empty := press(NewIssueListModel("Issues", nil), "tab")
	if !strings.Contains(empty.View(), "no errors to show") {
		t.Errorf("empty View() = %q", empty.View())
	}
}

func TestIssueListModelQuit(t *testing.T) {
	_, cmd := NewIssueListModel("Issues", nil).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
