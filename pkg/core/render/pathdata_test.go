package render

import (
	"reflect"
	"testing"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/errors"
)

func cmd(op document.Op, coords ...float64) document.Command {
	if coords == nil {
		coords = []float64{}
	}
	return document.Command{Cmd: op, Coords: coords}
}

func TestPathData(t *testing.T) {
	tests := []struct {
		name string
		cmds []document.Command
		want string
	}{
		{"empty", nil, ""},
		{"square", []document.Command{
			cmd(document.MoveTo, 100, 150), cmd(document.LineTo, 300, 150), cmd(document.ClosePath),
		}, "M100 150 L300 150 Z"},
		{"curves", []document.Command{
			cmd(document.MoveTo, 0, 0), cmd(document.QuadTo, 1.5, 2, 3, 4), cmd(document.CubicTo, 1, 2, 3, 4, 5, 6),
		}, "M0 0 Q1.5 2 3 4 C1 2 3 4 5 6"},
		{"rounding", []document.Command{cmd(document.MoveTo, 0.123456, -0.00001)}, "M0.1235 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathData(tt.cmds)
			if err != nil {
				t.Fatalf("PathData() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PathData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathDataErrors(t *testing.T) {
	for _, cmds := range [][]document.Command{
		{cmd("A", 1, 2)},
		{cmd(document.LineTo, 1)},
		{cmd(document.ClosePath, 1, 2)},
	} {
		if _, err := PathData(cmds); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("PathData(%v) error = %v, want INVALID_PATH", cmds, err)
		}
	}
}

func TestParsePathData(t *testing.T) {
	tests := []struct {
		d    string
		want []document.Command
	}{
		{"M100 150 L300 150 Z", []document.Command{
			cmd(document.MoveTo, 100, 150), cmd(document.LineTo, 300, 150), cmd(document.ClosePath),
		}},
		{"M0,0 10,10", []document.Command{
			cmd(document.MoveTo, 0, 0), cmd(document.LineTo, 10, 10),
		}},
		{"m10 10 l5 0 v5 h-5 z", []document.Command{
			cmd(document.MoveTo, 10, 10), cmd(document.LineTo, 15, 10), cmd(document.LineTo, 15, 15),
			cmd(document.LineTo, 10, 15), cmd(document.ClosePath),
		}},
		{"M1e2-5 Q.5.5 1 1", []document.Command{
			cmd(document.MoveTo, 100, -5), cmd(document.QuadTo, 0.5, 0.5, 1, 1),
		}},
		{"M0 0 C1 2 3 4 5 6 Z M7 8", []document.Command{
			cmd(document.MoveTo, 0, 0), cmd(document.CubicTo, 1, 2, 3, 4, 5, 6), cmd(document.ClosePath),
			cmd(document.MoveTo, 7, 8),
		}},
	}
	for _, tt := range tests {
		got, err := ParsePathData(tt.d)
		if err != nil {
			t.Errorf("ParsePathData(%q) error: %v", tt.d, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePathData(%q) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestParsePathDataErrors(t *testing.T) {
	tests := map[string]errors.Code{
		"10 10":         errors.ErrCodeInvalidPath,
		"M10":           errors.ErrCodeInvalidPath,
		"M0 0 L1 x":     errors.ErrCodeInvalidPath,
		"M0 0 A1 1 0 0": errors.ErrCodeUnsupported,
	}
	for d, want := range tests {
		if _, err := ParsePathData(d); !errors.Is(err, want) {
			t.Errorf("ParsePathData(%q) error = %v, want %s", d, err, want)
		}
	}
}

func TestPathDataRoundTrip(t *testing.T) {
	cmds := []document.Command{
		cmd(document.MoveTo, 12.5, 40), cmd(document.CubicTo, 1, 2, 3, 4, 5, 6),
		cmd(document.QuadTo, 7, 8, 9, 10), cmd(document.ClosePath),
	}
	d, err := PathData(cmds)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParsePathData(d)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cmds) {
		t.Errorf("ParsePathData(PathData()) = %v, want %v", got, cmds)
	}
}
