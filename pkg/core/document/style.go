package document

import "strconv"

// Style holds SVG presentation attributes for a path. Empty strings and nil
// numbers are omitted from the output.
type Style struct {
	Fill           string   `json:"fill,omitempty"`
	Stroke         string   `json:"stroke,omitempty"`
	StrokeWidth    *float64 `json:"strokeWidth,omitempty"`
	Opacity        *float64 `json:"opacity,omitempty"`
	FillOpacity    *float64 `json:"fillOpacity,omitempty"`
	StrokeOpacity  *float64 `json:"strokeOpacity,omitempty"`
	FillRule       string   `json:"fillRule,omitempty"`
	StrokeLinecap  string   `json:"strokeLinecap,omitempty"`
	StrokeLinejoin string   `json:"strokeLinejoin,omitempty"`
}

// Attr is one SVG attribute.
type Attr struct {
	Name  string
	Value string
}

// Attributes returns the style as SVG attributes in a fixed order.
func (s Style) Attributes() []Attr {
	var out []Attr
	add := func(name, value string) {
		if value != "" {
			out = append(out, Attr{name, value})
		}
	}
	num := func(name string, v *float64) {
		if v != nil {
			add(name, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}

	add("fill", s.Fill)
	num("fill-opacity", s.FillOpacity)
	add("fill-rule", s.FillRule)
	add("stroke", s.Stroke)
	num("stroke-width", s.StrokeWidth)
	num("stroke-opacity", s.StrokeOpacity)
	add("stroke-linecap", s.StrokeLinecap)
	add("stroke-linejoin", s.StrokeLinejoin)
	num("opacity", s.Opacity)
	return out
}

func (s Style) clone() Style {
	out := s
	for _, p := range []**float64{&out.StrokeWidth, &out.Opacity, &out.FillOpacity, &out.StrokeOpacity} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return out
}

// Float returns a pointer to v, for building styles.
func Float(v float64) *float64 { return &v }
