package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData marks an empty record collection: nothing to weight or rank.
	ErrNoData = errors.New("no draw records available")

	// ErrDegenerateWeights marks a weight map that cannot yield 6 distinct
	// numbers: all-zero weights, or fewer positive-weight numbers than slots.
	ErrDegenerateWeights = errors.New("degenerate weight map")

	// ErrSamplingExhausted marks an iteration cap reached before the
	// distinctness or filter constraints were satisfied.
	ErrSamplingExhausted = errors.New("sampling iteration cap reached")
)

// SamplingExhaustedError reports which strategy hit its rejection-loop cap.
type SamplingExhaustedError struct {
	Strategy string
	Cap      int
}

func (e *SamplingExhaustedError) Error() string {
	return fmt.Sprintf("strategy %q: no filter-passing candidates after %d draws", e.Strategy, e.Cap)
}

func (e *SamplingExhaustedError) Unwrap() error {
	return ErrSamplingExhausted
}
