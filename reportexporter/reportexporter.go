package reportexporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sandeepkv93/mergesort-visualizer/mergesortengine"
)

// DefaultMaxDisplay is the element count above which FormatArray
// truncates to a head-and-tail view.
const DefaultMaxDisplay = 20

// FormatArray renders values for display, truncating long arrays to
// their first and last maxDisplay/2 elements.
func FormatArray(values []float64, maxDisplay int) string {
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplay
	}
	if len(values) <= maxDisplay {
		return renderValues(values)
	}
	head := renderValues(values[:maxDisplay/2])
	tail := renderValues(values[len(values)-maxDisplay/2:])
	return fmt.Sprintf("%s ... %s (length: %d)", head, tail, len(values))
}

func renderValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TextReport formats a run as a plain-text report suitable for
// download.
func TextReport(result *mergesortengine.RunResult) string {
	complexity := mergesortengine.Complexity()

	var b strings.Builder
	fmt.Fprintf(&b, "Merge Sort Results\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Original Array: %s\n", FormatArray(mergesortengine.Values(result.Input), DefaultMaxDisplay))
	fmt.Fprintf(&b, "Sorted Array: %s\n\n", FormatArray(mergesortengine.Values(result.Sorted), DefaultMaxDisplay))
	fmt.Fprintf(&b, "Performance Statistics:\n")
	fmt.Fprintf(&b, "- Array Size: %d\n", len(result.Input))
	fmt.Fprintf(&b, "- Comparisons: %d\n", result.Stats.Comparisons)
	fmt.Fprintf(&b, "- Array Accesses: %d\n", result.Stats.ArrayAccesses)
	fmt.Fprintf(&b, "- Total Steps: %d\n", result.Stats.Steps)
	fmt.Fprintf(&b, "- Recursion Depth: %d\n\n", result.Stats.MaxDepth)
	fmt.Fprintf(&b, "Time Complexity: %s\n", complexity.TimeComplexity)
	fmt.Fprintf(&b, "Space Complexity: %s\n", complexity.SpaceComplexity)
	return b.String()
}

// JSONReport serializes a full run result as indented JSON.
func JSONReport(result *mergesortengine.RunResult) ([]byte, error) {
	if result == nil {
		return nil, errors.New("nil run result")
	}
	return json.MarshalIndent(result, "", "  ")
}

// AlgorithmProfile is one row of the sorting algorithm comparison
// table shown alongside the visualization.
type AlgorithmProfile struct {
	Algorithm       string `json:"algorithm"`
	BestCase        string `json:"best_case"`
	AverageCase     string `json:"average_case"`
	WorstCase       string `json:"worst_case"`
	SpaceComplexity string `json:"space_complexity"`
	Stable          bool   `json:"stable"`
	InPlace         bool   `json:"in_place"`
}

// ComparisonTable returns the reference comparison of common sorting
// algorithms, merge sort first.
func ComparisonTable() []AlgorithmProfile {
	return []AlgorithmProfile{
		{"Merge Sort", "O(n log n)", "O(n log n)", "O(n log n)", "O(n)", true, false},
		{"Quick Sort", "O(n log n)", "O(n log n)", "O(n²)", "O(log n)", false, true},
		{"Bubble Sort", "O(n)", "O(n²)", "O(n²)", "O(1)", true, true},
		{"Selection Sort", "O(n²)", "O(n²)", "O(n²)", "O(1)", false, true},
		{"Insertion Sort", "O(n)", "O(n²)", "O(n²)", "O(1)", true, true},
	}
}

// ComplexityPoint is one sample of a complexity growth curve.
type ComplexityPoint struct {
	N          int     `json:"n"`
	Operations float64 `json:"operations"`
}

// ComplexityCurve is a named complexity growth curve for charting.
type ComplexityCurve struct {
	Name   string            `json:"name"`
	Points []ComplexityPoint `json:"points"`
}

// ComplexitySeries returns growth curves for O(1), O(n), O(n log n) and
// O(n²) over powers of two up to 1024, the data behind the complexity
// comparison chart.
func ComplexitySeries() []ComplexityCurve {
	sizes := []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}

	curves := []ComplexityCurve{
		{Name: "O(1) - Constant"},
		{Name: "O(n) - Linear"},
		{Name: "O(n log n) - Merge Sort"},
		{Name: "O(n²) - Quadratic"},
	}
	for _, n := range sizes {
		nf := float64(n)
		curves[0].Points = append(curves[0].Points, ComplexityPoint{N: n, Operations: 1})
		curves[1].Points = append(curves[1].Points, ComplexityPoint{N: n, Operations: nf})
		curves[2].Points = append(curves[2].Points, ComplexityPoint{N: n, Operations: nf * math.Log2(nf)})
		curves[3].Points = append(curves[3].Points, ComplexityPoint{N: n, Operations: nf * nf})
	}
	return curves
}
