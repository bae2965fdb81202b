package reportexporter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sandeepkv93/mergesort-visualizer/mergesortengine"
)

func sortRun(t *testing.T, values []int) *mergesortengine.RunResult {
	t.Helper()
	engine := mergesortengine.NewEngine(mergesortengine.DefaultEngineConfig())
	result, err := mergesortengine.SortInts(engine, values)
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	return result
}

func TestFormatArrayShort(t *testing.T) {
	got := FormatArray([]float64{3, 1, 2}, 20)

	if got != "[3, 1, 2]" {
		t.Errorf("Expected [3, 1, 2], got %s", got)
	}
}

func TestFormatArrayEmpty(t *testing.T) {
	if got := FormatArray(nil, 20); got != "[]" {
		t.Errorf("Expected [], got %s", got)
	}
}

func TestFormatArrayTruncates(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i)
	}

	got := FormatArray(values, 20)
	if !strings.Contains(got, "...") {
		t.Errorf("Expected truncated display, got %s", got)
	}
	if !strings.Contains(got, "(length: 30)") {
		t.Errorf("Expected length annotation, got %s", got)
	}
	if !strings.HasPrefix(got, "[0, 1, ") {
		t.Errorf("Expected head elements, got %s", got)
	}
	if !strings.Contains(got, "29]") {
		t.Errorf("Expected tail elements, got %s", got)
	}
}

func TestTextReport(t *testing.T) {
	result := sortRun(t, []int{5, 2, 8, 2, 9, 1, 5, 5})
	report := TextReport(result)

	for _, want := range []string{
		"Merge Sort Results",
		"Original Array: [5, 2, 8, 2, 9, 1, 5, 5]",
		"Sorted Array: [1, 2, 2, 5, 5, 5, 8, 9]",
		"- Array Size: 8",
		"- Comparisons:",
		"- Array Accesses:",
		"- Total Steps:",
		"Time Complexity: O(n log n)",
		"Space Complexity: O(n)",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}

func TestJSONReport(t *testing.T) {
	result := sortRun(t, []int{2, 1})

	data, err := JSONReport(result)
	if err != nil {
		t.Fatalf("JSONReport failed: %v", err)
	}

	var decoded mergesortengine.RunResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if len(decoded.Sorted) != 2 || decoded.Sorted[0].Value != 1 {
		t.Errorf("Decoded report corrupted: %v", decoded.Sorted)
	}
	if decoded.Stats.Comparisons != 1 {
		t.Errorf("Expected 1 comparison in report, got %d", decoded.Stats.Comparisons)
	}

	if _, err := JSONReport(nil); err == nil {
		t.Error("Expected error for nil result")
	}
}

func TestComparisonTable(t *testing.T) {
	table := ComparisonTable()

	if len(table) != 5 {
		t.Fatalf("Expected 5 algorithms, got %d", len(table))
	}
	mergeSort := table[0]
	if mergeSort.Algorithm != "Merge Sort" {
		t.Errorf("Expected merge sort first, got %s", mergeSort.Algorithm)
	}
	if !mergeSort.Stable || mergeSort.InPlace {
		t.Errorf("Merge sort should be stable and not in-place: %+v", mergeSort)
	}
	if mergeSort.WorstCase != "O(n log n)" {
		t.Errorf("Expected O(n log n) worst case, got %s", mergeSort.WorstCase)
	}
}

func TestComplexitySeries(t *testing.T) {
	curves := ComplexitySeries()

	if len(curves) != 4 {
		t.Fatalf("Expected 4 curves, got %d", len(curves))
	}
	for _, curve := range curves {
		if len(curve.Points) != 11 {
			t.Errorf("Curve %s has %d points, expected 11", curve.Name, len(curve.Points))
		}
	}

	var nlogn ComplexityCurve
	for _, curve := range curves {
		if strings.Contains(curve.Name, "Merge Sort") {
			nlogn = curve
		}
	}
	if nlogn.Name == "" {
		t.Fatal("Expected a merge sort curve")
	}
	last := nlogn.Points[len(nlogn.Points)-1]
	if last.N != 1024 || last.Operations != 10240 {
		t.Errorf("Expected 1024 * log2(1024) = 10240, got n=%d ops=%g", last.N, last.Operations)
	}
}
