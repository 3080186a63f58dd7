package rainwater

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNegativeHeight is returned when a profile contains a bar below zero.
var ErrNegativeHeight = errors.New("negative height")

// ErrInvalidHeight is returned when a height token cannot be parsed.
var ErrInvalidHeight = errors.New("invalid height")

// HeightError reports the first offending position of a profile.
type HeightError struct {
	Index int
	Value int
	Err   error
}

func (e *HeightError) Error() string {
	return fmt.Sprintf("height[%d] = %d: %v", e.Index, e.Value, e.Err)
}

func (e *HeightError) Unwrap() error {
	return e.Err
}

// Validate checks that every height is non-negative.
func Validate(heights []int) error {
	for i, h := range heights {
		if h < 0 {
			return &HeightError{Index: i, Value: h, Err: ErrNegativeHeight}
		}
	}
	return nil
}

// ParseHeights parses a profile written as integers separated by commas
// and/or whitespace, optionally wrapped in square brackets ("[0,1,0,2]").
// An empty or blank string is an empty profile. Negative values parse
// successfully; run Validate to reject them.
func ParseHeights(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	heights := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w %q at position %d", ErrInvalidHeight, f, len(heights))
		}
		heights = append(heights, v)
	}
	return heights, nil
}

// ParseArgs parses heights given as separate command-line arguments.
// Each argument may itself hold several comma separated values.
func ParseArgs(args []string) ([]int, error) {
	return ParseHeights(strings.Join(args, " "))
}
