package model

import "fmt"

// FunctionType selects the shape of the input→output performance function
// and, with it, which constraint set the envelope builder emits. The
// numeric values match the performance_function_type field of technology
// documents (1-4).
type FunctionType int

const (
	Linear                          FunctionType = 1
	LinearMinPartLoad               FunctionType = 2
	PiecewiseLinear                 FunctionType = 3
	PiecewiseLinearWithTrajectories FunctionType = 4
)

// FunctionTypeFromInt converts the document value, rejecting anything
// outside 1-4 at construction time.
func FunctionTypeFromInt(v int) (FunctionType, error) {
	switch FunctionType(v) {
	case Linear, LinearMinPartLoad, PiecewiseLinear, PiecewiseLinearWithTrajectories:
		return FunctionType(v), nil
	default:
		return 0, &ConfigurationError{
			Field:  "performance_function_type",
			Reason: fmt.Sprintf("must be an integer between 1 and 4, got %d", v),
		}
	}
}

// Piecewise reports whether coefficients are per-segment.
func (ft FunctionType) Piecewise() bool {
	return ft == PiecewiseLinear || ft == PiecewiseLinearWithTrajectories
}

func (ft FunctionType) String() string {
	switch ft {
	case Linear:
		return "linear"
	case LinearMinPartLoad:
		return "linear_min_part_load"
	case PiecewiseLinear:
		return "piecewise_linear"
	case PiecewiseLinearWithTrajectories:
		return "piecewise_linear_with_trajectories"
	default:
		return fmt.Sprintf("FunctionType(%d)", int(ft))
	}
}
