package cli

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Severity of a validation message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation message split into its location and text.
type Issue struct {
	Severity Severity
	Location string
	Message  string
}

// locationPattern matches the structural prefix of a validation message,
// e.g. "Layer 2: Path 0: Command 5: ".
var locationPattern = regexp.MustCompile(`^((?:(?:Layer|Path|Command) \d+|Layout|Canvas|Document): )+`)

func newIssue(sev Severity, msg string) Issue {
	loc := locationPattern.FindString(msg)
	return Issue{
		Severity: sev,
		Location: strings.TrimSuffix(loc, ": "),
		Message:  strings.TrimPrefix(msg, loc),
	}
}

// collectIssues turns validation messages into issues, errors first.
func collectIssues(errs, warnings []string) []Issue {
	issues := make([]Issue, 0, len(errs)+len(warnings))
	for _, e := range errs {
		issues = append(issues, newIssue(SeverityError, e))
	}
	for _, w := range warnings {
		issues = append(issues, newIssue(SeverityWarning, w))
	}
	return issues
}

// issueFilter selects which severities the browser lists.
type issueFilter int

const (
	filterAll issueFilter = iota
	filterErrors
	filterWarnings
)

func (f issueFilter) String() string {
	return [...]string{"all", "errors", "warnings"}[f]
}

func (f issueFilter) keep(i Issue) bool {
	switch f {
	case filterErrors:
		return i.Severity == SeverityError
	case filterWarnings:
		return i.Severity == SeverityWarning
	}
	return true
}

// IssueListModel is the bubbletea model of the interactive issue browser.
type IssueListModel struct {
	Title   string
	Issues  []Issue
	Filter  issueFilter
	Cursor  int
	Offset  int
	Height  int
	visible []Issue
}

// NewIssueListModel creates a browser over issues.
func NewIssueListModel(title string, issues []Issue) IssueListModel {
	m := IssueListModel{Title: title, Issues: issues, Height: 15}
	m.refilter()
	return m
}

func (m *IssueListModel) refilter() {
	visible := make([]Issue, 0, len(m.Issues))
	for _, i := range m.Issues {
		if m.Filter.keep(i) {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	m.Cursor, m.Offset = 0, 0
}

// Visible returns the issues that pass the current filter.
func (m IssueListModel) Visible() []Issue { return m.visible }

func (m IssueListModel) Init() tea.Cmd {
	return nil
}

func (m IssueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.Filter = (m.Filter + 1) % 3
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m IssueListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  tab filter (%s)  q quit", m.Filter)))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " no " + m.Filter.String() + " to show\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		is := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		loc := is.Location
		if loc == "" {
			loc = "-"
		}
		rows = append(rows, []string{cursor, string(is.Severity), loc, is.Message})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Severity", "Location", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 1 {
				if m.visible[idx].Severity == SeverityError {
					base = base.Foreground(colorRed)
				} else {
					base = base.Foreground(colorYellow)
				}
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listSelectedStyle.Render(m.visible[m.Cursor].Message))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}
