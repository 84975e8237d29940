package debug

import (
	"fmt"
	"strings"
	"time"
)

// Summary is a human-readable synopsis of a [Result].
type Summary struct {
	Summary      string        `json:"summary"`
	Valid        bool          `json:"valid"`
	Statistics   Statistics    `json:"statistics"`
	RenderTime   time.Duration `json:"renderTime"`
	TopErrors    []string      `json:"topErrors"`
	TopWarnings  []string      `json:"topWarnings"`
	Regions      []string      `json:"regions"`
	LayerMarkers int           `json:"layerMarkers"`
}

const summaryIssues = 5

// Summarize condenses r into one sentence plus the first few problems.
func Summarize(r Result) Summary {
	s := Summary{
		Valid:       r.Validation.Success,
		Statistics:  r.Statistics,
		RenderTime:  r.RenderTime,
		TopErrors:   head(r.Validation.Errors, summaryIssues),
		TopWarnings: head(r.Validation.Warnings, summaryIssues),
		Regions:     []string{},
	}
	for _, el := range r.OverlayElements {
		switch el.Kind {
		case KindRegion:
			s.Regions = append(s.Regions, el.ID)
		case KindLayer:
			s.LayerMarkers++
		}
	}

	status := "valid"
	if !s.Valid {
		status = "invalid"
	}
	st := r.Statistics
	s.Summary = fmt.Sprintf("Document is %s: %s, %s, %s, %s on a %d×%d canvas (%s)",
		status,
		plural(st.LayersAnalyzed, "layer"),
		plural(st.RegionsShown, "region"),
		plural(st.ErrorsFound, "error"),
		plural(st.WarningsFound, "warning"),
		r.Canvas.Width, r.Canvas.Height,
		r.RenderTime.Round(time.Microsecond))
	return s
}

// String returns the summary followed by its listed problems, one per line.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString(s.Summary)
	for _, e := range s.TopErrors {
		sb.WriteString("\n  error: " + e)
	}
	for _, w := range s.TopWarnings {
		sb.WriteString("\n  warning: " + w)
	}
	if more := s.Statistics.ErrorsFound + s.Statistics.WarningsFound - len(s.TopErrors) - len(s.TopWarnings); more > 0 {
		fmt.Fprintf(&sb, "\n  ... and %d more", more)
	}
	return sb.String()
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return append([]string{}, items...)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
