package mergesortengine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when the input sequence cannot be sorted:
// it contains a value with no total order (NaN) or exceeds the
// configured maximum length. The check happens before any recursion.
var ErrInvalidInput = errors.New("invalid input")

// Element is a single orderable value. Ordering is by Value only; Label
// rides along untouched, which makes the stability guarantee observable
// (equal values keep their original relative order of labels).
type Element struct {
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// StepKind identifies the operation a StepRecord describes.
type StepKind int

const (
	// StepDivide records a sub-range being split at its midpoint before
	// recursion descends into the halves.
	StepDivide StepKind = iota
	// StepMerge records two sorted halves being merged back into one
	// sorted sub-range.
	StepMerge
	// StepAlreadySorted is the single trivial record emitted for inputs
	// of length zero or one.
	StepAlreadySorted
)

// String returns a display name for the step kind.
func (k StepKind) String() string {
	switch k {
	case StepDivide:
		return "divide"
	case StepMerge:
		return "merge"
	case StepAlreadySorted:
		return "already_sorted"
	default:
		return "unknown"
	}
}

// MergeMove describes one element placement during a merge: either the
// winner of a head-to-head comparison or a remainder copy after one
// side ran out.
type MergeMove struct {
	Compared      [2]float64 `json:"compared,omitempty"`
	HasComparison bool       `json:"has_comparison"`
	Chosen        Element    `json:"chosen"`
	Position      int        `json:"position"`
	FromLeft      bool       `json:"from_left"`
	Description   string     `json:"description"`
}

// StepRecord is one entry in the replay log. Start and End are half-open
// bounds over the original input. Array is a snapshot of the full
// working array after the operation. Left and Right hold the sub-range
// contents the operation worked on (the two halves before recursion for
// a divide, the two sorted inputs for a merge); Merged and Moves are
// populated for merge steps only.
type StepRecord struct {
	Index       int         `json:"index"`
	Kind        StepKind    `json:"kind"`
	Start       int         `json:"start"`
	End         int         `json:"end"`
	Mid         int         `json:"mid,omitempty"`
	Array       []Element   `json:"array"`
	Left        []Element   `json:"left,omitempty"`
	Right       []Element   `json:"right,omitempty"`
	Merged      []Element   `json:"merged,omitempty"`
	Moves       []MergeMove `json:"moves,omitempty"`
	Description string      `json:"description"`
}

// Statistics aggregates the work one run performed. A fresh value is
// produced per call and never mutated afterwards.
type Statistics struct {
	Comparisons   int `json:"comparisons"`
	ArrayAccesses int `json:"array_accesses"`
	Steps         int `json:"steps"`
	MaxDepth      int `json:"max_depth"`
}

// RunResult is the complete output of one sort invocation. The caller
// owns it exclusively; the engine keeps no state between calls.
type RunResult struct {
	Input  []Element    `json:"input"`
	Sorted []Element    `json:"sorted"`
	Steps  []StepRecord `json:"steps"`
	Stats  Statistics   `json:"stats"`
}

// ComplexityInfo holds the static complexity facts about merge sort
// that the presentation layer displays alongside a run.
type ComplexityInfo struct {
	TimeComplexity   string `json:"time_complexity"`
	SpaceComplexity  string `json:"space_complexity"`
	TimeExplanation  string `json:"time_explanation"`
	SpaceExplanation string `json:"space_explanation"`
	BestCase         string `json:"best_case"`
	AverageCase      string `json:"average_case"`
	WorstCase        string `json:"worst_case"`
	Stable           bool   `json:"stable"`
	InPlace          bool   `json:"in_place"`
}

// Complexity returns the complexity analysis for merge sort.
func Complexity() ComplexityInfo {
	return ComplexityInfo{
		TimeComplexity:   "O(n log n)",
		SpaceComplexity:  "O(n)",
		TimeExplanation:  "The array is recursively divided log n times, and each level requires O(n) operations to merge.",
		SpaceExplanation: "Additional space is needed for temporary arrays during the merge process.",
		BestCase:         "O(n log n)",
		AverageCase:      "O(n log n)",
		WorstCase:        "O(n log n)",
		Stable:           true,
		InPlace:          false,
	}
}

// EngineConfig contains configuration for the merge sort engine.
type EngineConfig struct {
	// MaxInputLength bounds the accepted input size; longer inputs fail
	// with ErrInvalidInput before any work is done.
	MaxInputLength int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxInputLength: 1000,
	}
}

// Engine runs instrumented merge sorts. It is stateless between calls,
// so one Engine may serve independent invocations.
type Engine struct {
	config EngineConfig
}

// NewEngine creates a merge sort engine.
func NewEngine(config EngineConfig) *Engine {
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = DefaultEngineConfig().MaxInputLength
	}
	return &Engine{config: config}
}

// Sort sorts input and returns the sorted copy together with the
// ordered step log and the work counters. The caller's slice is never
// mutated. Inputs containing NaN or exceeding the configured maximum
// length fail with ErrInvalidInput.
func (e *Engine) Sort(input []Element) (*RunResult, error) {
	if len(input) > e.config.MaxInputLength {
		return nil, fmt.Errorf("%w: length %d exceeds maximum %d", ErrInvalidInput, len(input), e.config.MaxInputLength)
	}
	for i, el := range input {
		if math.IsNaN(el.Value) {
			return nil, fmt.Errorf("%w: element at index %d is not comparable", ErrInvalidInput, i)
		}
	}

	result := &RunResult{Input: cloneElements(input)}

	if len(input) <= 1 {
		result.Sorted = cloneElements(input)
		result.Steps = []StepRecord{{
			Index:       0,
			Kind:        StepAlreadySorted,
			Start:       0,
			End:         len(input),
			Array:       cloneElements(input),
			Description: fmt.Sprintf("Array of length %d is already sorted", len(input)),
		}}
		result.Stats = Statistics{Steps: 1, MaxDepth: 1}
		return result, nil
	}

	run := &runState{arr: cloneElements(input)}
	run.sortRange(0, len(input), 1)

	result.Sorted = run.arr
	result.Steps = run.steps
	result.Stats = Statistics{
		Comparisons:   run.comparisons,
		ArrayAccesses: run.accesses,
		Steps:         len(run.steps),
		MaxDepth:      run.maxDepth,
	}
	return result, nil
}

// SortInts is a convenience wrapper for callers dealing in plain
// integers, such as the sample data provider.
func SortInts(engine *Engine, values []int) (*RunResult, error) {
	return engine.Sort(IntElements(values))
}

// runState carries the working array, step log and counters for one
// invocation. It exists only for the duration of a Sort call.
type runState struct {
	arr         []Element
	steps       []StepRecord
	comparisons int
	accesses    int
	maxDepth    int
}

// sortRange sorts arr[start:end] recursively, recording a divide step
// before descending and a merge step after both halves are sorted. The
// left half is fully resolved before the right half begins so the log
// replays in depth-first order.
func (rs *runState) sortRange(start, end, depth int) {
	if depth > rs.maxDepth {
		rs.maxDepth = depth
	}
	if end-start < 2 {
		return
	}

	mid := start + (end-start)/2

	rs.steps = append(rs.steps, StepRecord{
		Index:       len(rs.steps),
		Kind:        StepDivide,
		Start:       start,
		End:         end,
		Mid:         mid,
		Array:       cloneElements(rs.arr),
		Left:        cloneElements(rs.arr[start:mid]),
		Right:       cloneElements(rs.arr[mid:end]),
		Description: fmt.Sprintf("Dividing range [%d, %d) at index %d", start, end, mid),
	})

	rs.sortRange(start, mid, depth+1)
	rs.sortRange(mid, end, depth+1)

	rs.merge(start, mid, end)
}

// merge combines the sorted halves arr[start:mid] and arr[mid:end] with
// a two-pointer merge. Ties go to the left side, which is what makes
// the sort stable. Each comparison counts one comparison plus two reads
// and one write; remainder copies count one write each.
func (rs *runState) merge(start, mid, end int) {
	left := cloneElements(rs.arr[start:mid])
	right := cloneElements(rs.arr[mid:end])
	moves := make([]MergeMove, 0, end-start)

	i, j, k := 0, 0, start
	for i < len(left) && j < len(right) {
		lv, rv := left[i], right[j]
		rs.comparisons++
		rs.accesses += 2

		move := MergeMove{
			Compared:      [2]float64{lv.Value, rv.Value},
			HasComparison: true,
			Position:      k,
		}
		if lv.Value <= rv.Value {
			move.Chosen = lv
			move.FromLeft = true
			move.Description = fmt.Sprintf("Comparing %g <= %g, placing %g at position %d", lv.Value, rv.Value, lv.Value, k)
			i++
		} else {
			move.Chosen = rv
			move.Description = fmt.Sprintf("Comparing %g > %g, placing %g at position %d", lv.Value, rv.Value, rv.Value, k)
			j++
		}
		rs.arr[k] = move.Chosen
		rs.accesses++
		moves = append(moves, move)
		k++
	}

	for ; i < len(left); i++ {
		rs.arr[k] = left[i]
		rs.accesses++
		moves = append(moves, MergeMove{
			Chosen:      left[i],
			Position:    k,
			FromLeft:    true,
			Description: fmt.Sprintf("Copying remaining element %g to position %d", left[i].Value, k),
		})
		k++
	}
	for ; j < len(right); j++ {
		rs.arr[k] = right[j]
		rs.accesses++
		moves = append(moves, MergeMove{
			Chosen:      right[j],
			Position:    k,
			Description: fmt.Sprintf("Copying remaining element %g to position %d", right[j].Value, k),
		})
		k++
	}

	rs.steps = append(rs.steps, StepRecord{
		Index:       len(rs.steps),
		Kind:        StepMerge,
		Start:       start,
		End:         end,
		Mid:         mid,
		Array:       cloneElements(rs.arr),
		Left:        left,
		Right:       right,
		Merged:      cloneElements(rs.arr[start:end]),
		Moves:       moves,
		Description: fmt.Sprintf("Merged sorted halves into range [%d, %d)", start, end),
	})
}

// Replay applies a step log (or any prefix of one) to a copy of input
// and returns the reconstructed array state. Each record is validated
// against the array bounds and its own payload, so a log that could not
// have been produced by a real run is rejected.
func Replay(input []Element, steps []StepRecord) ([]Element, error) {
	arr := cloneElements(input)
	n := len(arr)

	for idx, step := range steps {
		if step.Index != idx {
			return nil, fmt.Errorf("step at position %d carries index %d", idx, step.Index)
		}
		if step.Start < 0 || step.End > n || step.Start > step.End {
			return nil, fmt.Errorf("step %d range [%d, %d) is out of bounds for length %d", idx, step.Start, step.End, n)
		}
		switch step.Kind {
		case StepDivide, StepAlreadySorted:
			// No mutation; the record only marks progress.
		case StepMerge:
			if len(step.Merged) != step.End-step.Start {
				return nil, fmt.Errorf("step %d merged payload has %d elements for range [%d, %d)", idx, len(step.Merged), step.Start, step.End)
			}
			copy(arr[step.Start:step.End], step.Merged)
		default:
			return nil, fmt.Errorf("step %d has unknown kind %d", idx, step.Kind)
		}
	}
	return arr, nil
}

// IntElements converts plain integers into engine elements.
func IntElements(values []int) []Element {
	elements := make([]Element, len(values))
	for i, v := range values {
		elements[i] = Element{Value: float64(v)}
	}
	return elements
}

// Values extracts the numeric values of a sequence of elements.
func Values(elements []Element) []float64 {
	values := make([]float64, len(elements))
	for i, el := range elements {
		values[i] = el.Value
	}
	return values
}

func cloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	return out
}
