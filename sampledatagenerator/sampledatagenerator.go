package sampledatagenerator

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// DataType defines the kinds of sample arrays the generator produces.
type DataType int

const (
	Random DataType = iota
	Sorted
	ReverseSorted
	NearlySorted
	ManyDuplicates
)

// String returns the display name of the data type.
func (d DataType) String() string {
	switch d {
	case Random:
		return "random"
	case Sorted:
		return "sorted"
	case ReverseSorted:
		return "reverse_sorted"
	case NearlySorted:
		return "nearly_sorted"
	case ManyDuplicates:
		return "many_duplicates"
	default:
		return "unknown"
	}
}

// ParseDataType maps a request string onto a data type.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "":
		return Random, nil
	case "sorted":
		return Sorted, nil
	case "reverse_sorted", "reverse":
		return ReverseSorted, nil
	case "nearly_sorted", "nearly":
		return NearlySorted, nil
	case "many_duplicates", "duplicates":
		return ManyDuplicates, nil
	default:
		return Random, fmt.Errorf("unknown data type %q", s)
	}
}

// GeneratorConfig holds the value and size bounds the generator
// enforces before any array reaches the sort engine.
type GeneratorConfig struct {
	MinValue int
	MaxValue int
	MinSize  int
	MaxSize  int
	Seed     int64
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinValue: 1,
		MaxValue: 100,
		MinSize:  1,
		MaxSize:  1000,
	}
}

// Generator produces sample input arrays for the visualizer.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a sample data generator. A zero seed means a
// time-based seed; a fixed seed gives reproducible output.
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if config.MinValue == 0 && config.MaxValue == 0 {
		defaults := DefaultGeneratorConfig()
		config.MinValue = defaults.MinValue
		config.MaxValue = defaults.MaxValue
	}
	if config.MinSize <= 0 {
		config.MinSize = DefaultGeneratorConfig().MinSize
	}
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultGeneratorConfig().MaxSize
	}
	if config.MinValue > config.MaxValue {
		return nil, fmt.Errorf("min value %d exceeds max value %d", config.MinValue, config.MaxValue)
	}
	if config.MinSize > config.MaxSize {
		return nil, fmt.Errorf("min size %d exceeds max size %d", config.MinSize, config.MaxSize)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate produces an array of the requested type and size.
func (g *Generator) Generate(dataType DataType, size int) ([]int, error) {
	if size < g.config.MinSize || size > g.config.MaxSize {
		return nil, fmt.Errorf("size %d outside allowed range [%d, %d]", size, g.config.MinSize, g.config.MaxSize)
	}

	switch dataType {
	case Random:
		return g.randomArray(size, g.config.MinValue, g.config.MaxValue), nil
	case Sorted:
		arr := make([]int, size)
		for i := range arr {
			arr[i] = i + 1
		}
		return arr, nil
	case ReverseSorted:
		arr := make([]int, size)
		for i := range arr {
			arr[i] = size - i
		}
		return arr, nil
	case NearlySorted:
		arr := make([]int, size)
		for i := range arr {
			arr[i] = i + 1
		}
		// A handful of random swaps leaves the array mostly ordered.
		swaps := size / 10
		if swaps < 1 {
			swaps = 1
		}
		for s := 0; s < swaps; s++ {
			i, j := g.rng.Intn(size), g.rng.Intn(size)
			arr[i], arr[j] = arr[j], arr[i]
		}
		return arr, nil
	case ManyDuplicates:
		return g.randomArray(size, 1, size/3+1), nil
	default:
		return nil, fmt.Errorf("unknown data type %d", dataType)
	}
}

func (g *Generator) randomArray(size, min, max int) []int {
	arr := make([]int, size)
	for i := range arr {
		arr[i] = min + g.rng.Intn(max-min+1)
	}
	return arr
}

// ParseManualInput parses a comma-separated list of integers, the
// manual entry format of the UI. Whitespace around entries is ignored.
func ParseManualInput(input string) ([]int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, errors.New("empty input")
	}

	parts := strings.Split(trimmed, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", strings.TrimSpace(part), err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ExampleCases returns the fixed example arrays bundled with the tool.
// Callers receive fresh copies on every call.
func ExampleCases() map[string][]int {
	return map[string][]int{
		"random_small":   {64, 34, 25, 12, 22, 11, 90},
		"already_sorted": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		"reverse_sorted": {10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		"nearly_sorted":  {1, 2, 4, 3, 5, 6, 8, 7, 9, 10},
		"duplicates":     {5, 2, 8, 2, 9, 1, 5, 5},
		"single_element": {42},
		"empty":          {},
		"two_elements":   {3, 1},
	}
}

// ExampleNames returns the example catalog keys in a stable order.
func ExampleNames() []string {
	return []string{
		"random_small",
		"already_sorted",
		"reverse_sorted",
		"nearly_sorted",
		"duplicates",
		"single_element",
		"empty",
		"two_elements",
	}
}
