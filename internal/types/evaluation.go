package types

import "time"

// Verdict is the fit tier of an evaluated resume
type Verdict string

// Verdict constants
const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
	VerdictError  Verdict = "Error"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictHigh, VerdictMedium, VerdictLow, VerdictError:
		return true
	}
	return false
}

// ScoreComponents holds the two partial scores of an evaluation
type ScoreComponents struct {
	Hard     float64 `json:"hard_score"`     // 0-50
	Semantic float64 `json:"semantic_score"` // 0-50
}

// Total returns hard + semantic clamped to [0, 100].
func (s ScoreComponents) Total() float64 {
	total := s.Hard + s.Semantic
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// EvaluationResult is the outcome of scoring one resume against one job description.
type EvaluationResult struct {
	ResumeName     string          `json:"resume_name"`
	TotalScore     float64         `json:"total_score"`
	Verdict        Verdict         `json:"verdict"`
	MissingSkills  []string        `json:"missing_skills"`
	Feedback       string          `json:"feedback"`
	ProcessingTime float64         `json:"processing_time"` // seconds
	Components     ScoreComponents `json:"components"`

	// Set only for results produced by a batch evaluation. A batch can finish in
	// under 0.005s, so batch_time is always written; batch_size marks batch membership.
	BatchTime float64 `json:"batch_time"` // seconds
	BatchSize int     `json:"batch_size,omitempty"`
}

// Failed reports whether the evaluation ended in the Error state.
func (r EvaluationResult) Failed() bool {
	return r.Verdict == VerdictError
}

// BatchStats summarises a set of evaluation results
type BatchStats struct {
	Total        int             `json:"total"`
	Successful   int             `json:"successful"`
	Errors       int             `json:"errors"`
	AverageScore float64         `json:"average_score"`
	Verdicts     map[Verdict]int `json:"verdicts"`
	Duration     time.Duration   `json:"duration"`
}

// NewBatchStats computes statistics over results. AverageScore ignores Error results.
func NewBatchStats(results []EvaluationResult, duration time.Duration) BatchStats {
	stats := BatchStats{
		Total:    len(results),
		Verdicts: make(map[Verdict]int),
		Duration: duration,
	}

	var sum float64
	for _, r := range results {
		stats.Verdicts[r.Verdict]++
		if r.Failed() {
			stats.Errors++
			continue
		}
		stats.Successful++
		sum += r.TotalScore
	}
	if stats.Successful > 0 {
		stats.AverageScore = sum / float64(stats.Successful)
	}
	return stats
}
