package region

import (
	"encoding/json"
	"fmt"
)

// Anchor locates where, within a region, an element's origin sits.
// The zero value is Center.
type Anchor int

// The nine anchor points.
const (
	Center Anchor = iota
	TopLeft
	TopCenter
	TopRight
	MiddleLeft
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var anchorNames = [...]string{
	Center:       "center",
	TopLeft:      "top_left",
	TopCenter:    "top_center",
	TopRight:     "top_right",
	MiddleLeft:   "middle_left",
	MiddleRight:  "middle_right",
	BottomLeft:   "bottom_left",
	BottomCenter: "bottom_center",
	BottomRight:  "bottom_right",
}

var anchorFractions = [...][2]float64{
	Center:       {0.5, 0.5},
	TopLeft:      {0, 0},
	TopCenter:    {0.5, 0},
	TopRight:     {1, 0},
	MiddleLeft:   {0, 0.5},
	MiddleRight:  {1, 0.5},
	BottomLeft:   {0, 1},
	BottomCenter: {0.5, 1},
	BottomRight:  {1, 1},
}

// Anchors returns all anchors in declaration order.
func Anchors() []Anchor {
	out := make([]Anchor, len(anchorNames))
	for i := range anchorNames {
		out[i] = Anchor(i)
	}
	return out
}

// AnchorNames returns the names of all anchors.
func AnchorNames() []string {
	out := make([]string, len(anchorNames))
	copy(out, anchorNames[:])
	return out
}

// ParseAnchor looks up an anchor by name.
func ParseAnchor(s string) (Anchor, bool) {
	for i, n := range anchorNames {
		if n == s {
			return Anchor(i), true
		}
	}
	return Center, false
}

// Valid reports whether a is one of the nine anchors.
func (a Anchor) Valid() bool { return a >= 0 && int(a) < len(anchorNames) }

// String returns the snake_case anchor name.
func (a Anchor) String() string {
	if !a.Valid() {
		return fmt.Sprintf("anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// Fraction returns the anchor position inside a rectangle as fractions of
// its width and height: top_left is (0,0), center (0.5,0.5), bottom_right (1,1).
func (a Anchor) Fraction() (fx, fy float64) {
	if !a.Valid() {
		return 0.5, 0.5
	}
	f := anchorFractions[a]
	return f[0], f[1]
}

// MarshalJSON encodes the anchor as its name.
func (a Anchor) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid anchor %d", int(a))
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an anchor name.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("anchor must be a string: %w", err)
	}
	parsed, ok := ParseAnchor(s)
	if !ok {
		return fmt.Errorf("unknown anchor %q", s)
	}
	*a = parsed
	return nil
}
