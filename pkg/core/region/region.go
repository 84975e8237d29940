// Package region defines named placement regions of the unit canvas.
//
// A region is a rectangle in normalized canvas space: (0,0) is the top-left
// corner of the canvas and (1,1) the bottom-right. Layout specifications
// refer to regions by name and position elements at one of nine [Anchor]
// points inside them.
//
// # Standard Regions
//
// The built-in table covers the whole canvas, a 3×3 grid, the four halves and
// a header/main/footer split:
//
//	full_canvas
//	top_left     top_center     top_right
//	middle_left  center         middle_right
//	bottom_left  bottom_center  bottom_right
//	top_half  bottom_half  left_half  right_half
//	header  main_content  footer
//
// Documents may register custom regions through a [Manager]; custom names
// can never shadow a standard one.
package region

import (
	"regexp"
	"slices"

	"github.com/matzehuels/svglayout/pkg/errors"
)

// epsilon absorbs floating-point error in containment checks.
const epsilon = 1e-9

// Rect is an axis-aligned rectangle. Inside a region table it is expressed in
// normalized canvas units; PixelBounds returns the same shape in pixels.
type Rect struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Scale returns r with X/Width multiplied by sx and Y/Height by sy.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{X: r.X * sx, Y: r.Y * sy, Width: r.Width * sx, Height: r.Height * sy}
}

// Point returns the absolute position of anchor a inside r.
func (r Rect) Point(a Anchor) (x, y float64) {
	fx, fy := a.Fraction()
	return r.X + fx*r.Width, r.Y + fy*r.Height
}

// CheckNormalized reports why r is not a valid normalized region, or nil.
// Origin and size must lie within [0,1] and the rectangle must not overflow
// the unit canvas.
func (r Rect) CheckNormalized() error {
	switch {
	case r.X < 0 || r.X > 1 || r.Y < 0 || r.Y > 1:
		return errors.New(errors.ErrCodeInvalidRegion, "origin (%g, %g) must be within [0, 1]", r.X, r.Y)
	case r.Width <= 0 || r.Height <= 0:
		return errors.New(errors.ErrCodeInvalidRegion, "size %g×%g must be positive", r.Width, r.Height)
	case r.Width > 1 || r.Height > 1:
		return errors.New(errors.ErrCodeInvalidRegion, "size %g×%g must be within [0, 1]", r.Width, r.Height)
	case r.Right() > 1+epsilon:
		return errors.New(errors.ErrCodeInvalidRegion, "x + width = %g overflows the canvas", r.Right())
	case r.Bottom() > 1+epsilon:
		return errors.New(errors.ErrCodeInvalidRegion, "y + height = %g overflows the canvas", r.Bottom())
	}
	return nil
}

const third = 1.0 / 3.0

var standard = map[string]Rect{
	"full_canvas": {0, 0, 1, 1},

	"top_left":      {0, 0, third, third},
	"top_center":    {third, 0, third, third},
	"top_right":     {2 * third, 0, third, third},
	"middle_left":   {0, third, third, third},
	"center":        {third, third, third, third},
	"middle_right":  {2 * third, third, third, third},
	"bottom_left":   {0, 2 * third, third, third},
	"bottom_center": {third, 2 * third, third, third},
	"bottom_right":  {2 * third, 2 * third, third, third},

	"top_half":    {0, 0, 1, 0.5},
	"bottom_half": {0, 0.5, 1, 0.5},
	"left_half":   {0, 0, 0.5, 1},
	"right_half":  {0.5, 0, 0.5, 1},

	"header":       {0, 0, 1, 0.15},
	"main_content": {0, 0.15, 1, 0.7},
	"footer":       {0, 0.85, 1, 0.15},
}

// StandardNames returns the names of all built-in regions, sorted.
func StandardNames() []string {
	names := make([]string, 0, len(standard))
	for n := range standard {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// IsStandard reports whether name is a built-in region.
func IsStandard(name string) bool {
	_, ok := standard[name]
	return ok
}

// Standard returns the bounds of a built-in region.
func Standard(name string) (Rect, bool) {
	r, ok := standard[name]
	return r, ok
}

// Name is a syntactically valid region identifier. Values are only produced
// by ParseName, so holding a Name means the lookup-table key is well formed.
type Name string

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// maxNameLength bounds region identifiers.
const maxNameLength = 64

// ParseName validates s as a region identifier.
func ParseName(s string) (Name, error) {
	if s == "" {
		return "", errors.New(errors.ErrCodeInvalidRegion, "region name cannot be empty")
	}
	if len(s) > maxNameLength {
		return "", errors.New(errors.ErrCodeInvalidRegion, "region name too long (max %d characters)", maxNameLength)
	}
	if !namePattern.MatchString(s) {
		return "", errors.New(errors.ErrCodeInvalidRegion, "invalid region name %q (letters, digits, '_' and '-', starting with a letter)", s)
	}
	return Name(s), nil
}

// String returns the name as a plain string.
func (n Name) String() string { return string(n) }
