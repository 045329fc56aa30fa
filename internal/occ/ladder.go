package occ

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Default ladder bounds and step, used when no filter is supplied.
const (
	DefaultLadderStart = 0.5
	DefaultLadderEnd   = 10.0
	DefaultLadderStep  = 0.5
)

// ladderTolerance admits the upper bound even when (end-start)/step is not
// exactly representable. Without it, a ladder like 0.5..10.0 step 0.5 can
// lose its final rung to rounding in the caller-supplied floats.
var ladderTolerance = decimal.NewFromFloat(0.0001)

// InvalidRangeError reports a non-positive ladder step.
type InvalidRangeError struct {
	Step float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("ladder step must be positive, got %v", e.Step)
}

// GenerateLadder produces an ordered sequence of candidate strikes.
//
// If strike is non-nil the result is exactly [*strike]; bounds and step
// are ignored. Otherwise the ladder runs from strikeGte (default 0.5) to
// strikeLte (default 10.0) inclusive, in increments of step. Inverted
// bounds are swapped rather than rejected. Accumulation happens in
// decimal arithmetic so consecutive rungs differ by exactly step with no
// cumulative float drift.
func GenerateLadder(strike, strikeGte, strikeLte *float64, step float64) ([]float64, error) {
	if strike != nil {
		return []float64{*strike}, nil
	}
	if step <= 0 {
		return nil, &InvalidRangeError{Step: step}
	}

	start := DefaultLadderStart
	if strikeGte != nil {
		start = *strikeGte
	}
	end := DefaultLadderEnd
	if strikeLte != nil {
		end = *strikeLte
	}
	if end < start {
		start, end = end, start
	}

	current := decimal.NewFromFloat(start)
	limit := decimal.NewFromFloat(end).Add(ladderTolerance)
	stepDec := decimal.NewFromFloat(step)

	var strikes []float64
	for current.LessThanOrEqual(limit) {
		strikes = append(strikes, current.InexactFloat64())
		current = current.Add(stepDec)
	}
	return strikes, nil
}
