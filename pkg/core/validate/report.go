package validate

import (
	"fmt"

	"github.com/matzehuels/svglayout/pkg/core/document"
)

// Complexity classifies a document by its total command count.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Complexity thresholds on total commands.
const (
	lowComplexityCommands    = 100
	mediumComplexityCommands = 500
)

// Recommendation thresholds.
const (
	manyPaths       = 50
	manyCoordinates = 1000
	manyLayers      = 10
)

// Report is a read-only summary of a document.
type Report struct {
	Stats           document.Stats `json:"stats"`
	Complexity      Complexity     `json:"complexity"`
	Recommendations []string       `json:"recommendations"`
}

// ClassifyComplexity maps a command count to a complexity tier.
func ClassifyComplexity(commands int) Complexity {
	switch {
	case commands <= lowComplexityCommands:
		return ComplexityLow
	case commands <= mediumComplexityCommands:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// CreateValidationReport summarizes d without validating it.
func CreateValidationReport(d document.Document) Report {
	stats := d.Stats()
	r := Report{
		Stats:           stats,
		Complexity:      ClassifyComplexity(stats.Commands),
		Recommendations: []string{},
	}
	if stats.Paths > manyPaths {
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("Consider merging paths: %d paths make the SVG heavier to render", stats.Paths))
	}
	if stats.Coordinates > manyCoordinates {
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("Consider simplifying geometry: %d coordinates is above %d", stats.Coordinates, manyCoordinates))
	}
	if stats.Layers > manyLayers {
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("Consider grouping layers: %d layers is above %d", stats.Layers, manyLayers))
	}
	if r.Complexity == ComplexityHigh {
		r.Recommendations = append(r.Recommendations, "Consider splitting the document: complexity is high")
	}
	return r
}
