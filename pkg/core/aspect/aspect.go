// Package aspect maps symbolic aspect ratios to canvas pixel dimensions.
//
// Every supported ratio resolves to a canvas whose longer side is
// [BaseSize] pixels; the shorter side is rounded to the nearest integer:
//
//	aspect.Dimensions(aspect.Square)     // 512×512
//	aspect.Dimensions(aspect.Widescreen) // 512×288
//	aspect.Dimensions(aspect.Tall)       // 288×512
//
// [ScaleFactor] gives the per-axis factors between two ratios and is used by
// the interpreter when a document is re-targeted to another ratio.
package aspect

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/svglayout/pkg/errors"
)

// BaseSize is the length in pixels of the longer canvas side.
const BaseSize = 512

// Ratio is a symbolic aspect ratio such as "16:9".
type Ratio string

// Supported ratios.
const (
	Square           Ratio = "1:1"
	Standard         Ratio = "4:3"
	StandardPortrait Ratio = "3:4"
	Widescreen       Ratio = "16:9"
	Tall             Ratio = "9:16"
	Photo            Ratio = "3:2"
	PhotoPortrait    Ratio = "2:3"
)

// Default is the ratio assumed when a document does not name one.
const Default = Square

var supported = []Ratio{Square, Standard, StandardPortrait, Widescreen, Tall, Photo, PhotoPortrait}

// Size is a canvas size in whole pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Min returns the smaller of the two sides.
func (s Size) Min() int { return min(s.Width, s.Height) }

// Supported returns all known ratios in a stable order.
func Supported() []Ratio {
	out := make([]Ratio, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether r is a known ratio.
func IsSupported(r Ratio) bool {
	for _, s := range supported {
		if s == r {
			return true
		}
	}
	return false
}

// Parse converts a string such as "16:9" into a Ratio.
// Surrounding whitespace is ignored.
func Parse(s string) (Ratio, error) {
	r := Ratio(strings.TrimSpace(s))
	if !IsSupported(r) {
		return "", errors.New(errors.ErrCodeUnknownAspectRatio, "unknown aspect ratio %q (supported: %s)", s, joinRatios(supported))
	}
	return r, nil
}

// Dimensions returns the canvas size for r.
func Dimensions(r Ratio) (Size, error) {
	if !IsSupported(r) {
		return Size{}, errors.New(errors.ErrCodeUnknownAspectRatio, "unknown aspect ratio %q", string(r))
	}
	w, h := r.terms()
	if w >= h {
		return Size{Width: BaseSize, Height: int(math.Round(BaseSize * h / w))}, nil
	}
	return Size{Width: int(math.Round(BaseSize * w / h)), Height: BaseSize}, nil
}

// MustDimensions is like Dimensions but panics for unknown ratios.
// It is intended for package-level tables built from the constants above.
func MustDimensions(r Ratio) Size {
	s, err := Dimensions(r)
	if err != nil {
		panic(err)
	}
	return s
}

// ScaleFactor returns the horizontal and vertical factors that map
// coordinates on a canvas of ratio from onto a canvas of ratio to.
func ScaleFactor(from, to Ratio) (sx, sy float64, err error) {
	src, err := Dimensions(from)
	if err != nil {
		return 0, 0, err
	}
	dst, err := Dimensions(to)
	if err != nil {
		return 0, 0, err
	}
	return float64(dst.Width) / float64(src.Width), float64(dst.Height) / float64(src.Height), nil
}

// FromDimensions returns the supported ratio whose canvas equals w×h.
func FromDimensions(w, h int) (Ratio, bool) {
	for _, r := range supported {
		if s := MustDimensions(r); s.Width == w && s.Height == h {
			return r, true
		}
	}
	return "", false
}

// Landscape reports whether the ratio is wider than tall.
func (r Ratio) Landscape() bool {
	w, h := r.terms()
	return w > h
}

func (r Ratio) terms() (w, h float64) {
	parts := strings.SplitN(string(r), ":", 2)
	if len(parts) != 2 {
		return 1, 1
	}
	w, errW := strconv.ParseFloat(parts[0], 64)
	h, errH := strconv.ParseFloat(parts[1], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 1, 1
	}
	return w, h
}

func joinRatios(rs []Ratio) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
