package rainwater

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects which realization of the computation to run.
// Both return identical results for valid input.
type Method string

const (
	MethodPrefix     Method = "prefix"
	MethodTwoPointer Method = "two-pointer"
)

// DefaultMethod is used when no method is requested.
const DefaultMethod = MethodPrefix

// ErrUnknownMethod is returned by ParseMethod for unrecognised names.
var ErrUnknownMethod = errors.New("unknown method")

// Methods lists the supported methods.
func Methods() []Method {
	return []Method{MethodPrefix, MethodTwoPointer}
}

// ParseMethod resolves a method name. The empty string selects DefaultMethod.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultMethod, nil
	case "prefix", "prefix-suffix", "dp":
		return MethodPrefix, nil
	case "two-pointer", "twopointer", "two_pointer":
		return MethodTwoPointer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// Trap runs the computation selected by m.
func (m Method) Trap(heights []int) int {
	if m == MethodTwoPointer {
		return TrapTwoPointer(heights)
	}
	return Trap(heights)
}

func (m Method) String() string {
	return string(m)
}
