// Package grading holds the pure weight-validation and aggregation math that
// the services build on. Nothing in here touches the store.
package grading

import "fmt"

// WeightEpsilon is the tolerated deviation of a template's weight sum from 1.0.
const WeightEpsilon = 0.01

// WeightErrorKind distinguishes weight validation failures.
type WeightErrorKind string

const (
	// WeightOutOfRange means a single weight fell outside (0, 1].
	WeightOutOfRange WeightErrorKind = "out_of_range"
	// WeightNotNormalized means the weights of a template do not sum to 1.0.
	WeightNotNormalized WeightErrorKind = "not_normalized"
)

// WeightError reports an invalid weight configuration. Validation never
// rewrites weights; the caller must re-enter values.
type WeightError struct {
	Kind   WeightErrorKind
	Weight float64
	Sum    float64
}

func (e *WeightError) Error() string {
	switch e.Kind {
	case WeightNotNormalized:
		return fmt.Sprintf("assignment weights sum to %.4f, expected 1.0 (deviation %.4f)", e.Sum, e.Sum-1.0)
	default:
		return fmt.Sprintf("weight %.4f is outside (0, 1]", e.Weight)
	}
}

// ValidateWeight checks that a single weight fraction lies in (0, 1].
func ValidateWeight(w float64) error {
	if w <= 0 || w > 1 {
		return &WeightError{Kind: WeightOutOfRange, Weight: w}
	}
	return nil
}

// ValidateWeights checks every weight individually and then requires the sum
// to equal 1.0 within WeightEpsilon.
func ValidateWeights(weights []float64) error {
	var sum float64
	for _, w := range weights {
		if err := ValidateWeight(w); err != nil {
			return err
		}
		sum += w
	}

	if sum-1.0 > WeightEpsilon || 1.0-sum > WeightEpsilon {
		return &WeightError{Kind: WeightNotNormalized, Sum: sum}
	}

	return nil
}
