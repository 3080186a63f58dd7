// Package rainwater computes how much rain water a one-dimensional terrain
// traps between its bars.
//
// Heights are non-negative integers. Trap, TrapTwoPointer and Compute do not
// check that precondition: a negative height produces an unspecified result.
// Callers that accept untrusted input should use Validate or TrapChecked.
//
// Totals that do not fit in an int saturate at math.MaxInt in the unchecked
// functions; TrapChecked reports them as ErrOverflow.
package rainwater

import (
	"errors"
	"math"
)

// ErrOverflow is returned when the trapped water does not fit in an int.
var ErrOverflow = errors.New("trapped water overflows int")

// =============================================================================
// Core Computation
// =============================================================================

// Trap returns the total water trapped by the terrain using prefix and suffix
// maxima. It runs in O(n) time and allocates two slices of length n.
func Trap(heights []int) int {
	water, _ := trapPrefix(heights)
	return water
}

func trapPrefix(heights []int) (int, error) {
	if len(heights) == 0 {
		return 0, nil
	}

	left := leftHighest(heights)
	right := rightHighest(heights)

	water := 0
	for i, h := range heights {
		var ok bool
		if water, ok = addWater(water, min(left[i], right[i])-h); !ok {
			return math.MaxInt, ErrOverflow
		}
	}
	return water, nil
}

// TrapTwoPointer returns the same result as Trap without materializing the
// profiles. Two cursors walk inward from the ends; the lower side is always
// bounded by the running maximum on its own side.
func TrapTwoPointer(heights []int) int {
	lo, hi := 0, len(heights)-1
	leftMax, rightMax := 0, 0

	water := 0
	for lo < hi {
		w := 0
		if heights[lo] < heights[hi] {
			if heights[lo] > leftMax {
				leftMax = heights[lo]
			} else {
				w = leftMax - heights[lo]
			}
			lo++
		} else {
			if heights[hi] > rightMax {
				rightMax = heights[hi]
			} else {
				w = rightMax - heights[hi]
			}
			hi--
		}

		var ok bool
		if water, ok = addWater(water, w); !ok {
			return math.MaxInt
		}
	}
	return water
}

// TrapChecked validates heights and then computes Trap. A total that does
// not fit in an int is reported as ErrOverflow.
func TrapChecked(heights []int) (int, error) {
	if err := Validate(heights); err != nil {
		return 0, err
	}
	return trapPrefix(heights)
}

// addWater adds a non-negative term to total, reporting false on overflow.
func addWater(total, w int) (int, bool) {
	if w > math.MaxInt-total {
		return math.MaxInt, false
	}
	return total + w, true
}

// =============================================================================
// Derived Profiles
// =============================================================================

// leftHighest returns left[i] = max(heights[0..i]).
func leftHighest(heights []int) []int {
	left := make([]int, len(heights))
	if len(heights) == 0 {
		return left
	}
	left[0] = heights[0]
	for i := 1; i < len(heights); i++ {
		left[i] = max(left[i-1], heights[i])
	}
	return left
}

// rightHighest returns right[i] = max(heights[i..n-1]).
func rightHighest(heights []int) []int {
	n := len(heights)
	right := make([]int, n)
	if n == 0 {
		return right
	}
	right[n-1] = heights[n-1]
	for i := n - 2; i >= 0; i-- {
		right[i] = max(right[i+1], heights[i])
	}
	return right
}
