package validate

import (
	"math"

	"github.com/matzehuels/svglayout/pkg/core/document"
)

// epsilon is the tolerance below which rounding is not reported.
const epsilon = 1e-9

// maxPrecision caps the number of decimal places kept.
const maxPrecision = 10

// CoordinateResult is the outcome of sanitizing a list of coordinates.
type CoordinateResult struct {
	Values  []float64 `json:"values"`
	Clamped bool      `json:"clamped"`
	Rounded bool      `json:"rounded"`
}

// SanitizeCoordinates rounds every value to b.Precision decimal places and
// then clamps it to [b.Min, b.Max]. The input slice is not modified.
func SanitizeCoordinates(coords []float64, b document.CoordinateBounds) CoordinateResult {
	r := CoordinateResult{Values: make([]float64, len(coords))}
	for i, v := range coords {
		out, clamped, rounded := sanitize(v, b)
		r.Values[i] = out
		r.Clamped = r.Clamped || clamped
		r.Rounded = r.Rounded || rounded
	}
	return r
}

func sanitize(v float64, b document.CoordinateBounds) (out float64, clamped, rounded bool) {
	out = Round(v, b.Precision)
	rounded = math.Abs(out-v) > epsilon
	if out < b.Min {
		out, clamped = b.Min, true
	} else if out > b.Max {
		out, clamped = b.Max, true
	}
	return out, clamped, rounded
}

// Round rounds v to precision decimal places. Precision is limited to
// [0, 10].
func Round(v float64, precision int) float64 {
	precision = max(0, min(precision, maxPrecision))
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}
