package evaluation

import (
	"math"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// Thresholds are the minimum total scores of the High and Medium verdicts
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns High at 75 and Medium at 50.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 75, Medium: 50}
}

// Classify maps a total score to a verdict.
func Classify(total float64, t Thresholds) types.Verdict {
	switch {
	case total >= t.High:
		return types.VerdictHigh
	case total >= t.Medium:
		return types.VerdictMedium
	default:
		return types.VerdictLow
	}
}

// round2 rounds to two decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
