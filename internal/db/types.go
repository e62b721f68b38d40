package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// StoredResult is an evaluation result persisted for one job description
type StoredResult struct {
	ID              uuid.UUID     `json:"id"`
	ResumeName      string        `json:"resume_name"`
	JDName          string        `json:"jd_name"`
	JDFingerprint   string        `json:"jd_fingerprint,omitempty"`
	Score           float64       `json:"score"`
	Verdict         types.Verdict `json:"verdict"`
	Feedback        string        `json:"feedback"`
	MissingElements []string      `json:"missing_elements"`
	ProcessingTime  float64       `json:"processing_time"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SearchFilter narrows SearchResults. Empty fields match everything.
type SearchFilter struct {
	JDName  string        // case-insensitive substring of the job description name
	Verdict types.Verdict // exact verdict
	Limit   int
}

// ToEvaluationResult converts a stored row back into an EvaluationResult
func (r StoredResult) ToEvaluationResult() types.EvaluationResult {
	missing := r.MissingElements
	if missing == nil {
		missing = []string{}
	}
	return types.EvaluationResult{
		ResumeName:     r.ResumeName,
		TotalScore:     r.Score,
		Verdict:        r.Verdict,
		MissingSkills:  missing,
		Feedback:       r.Feedback,
		ProcessingTime: r.ProcessingTime,
	}
}
