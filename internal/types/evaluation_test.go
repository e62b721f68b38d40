package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreComponents_Total(t *testing.T) {
	tests := []struct {
		name     string
		comps    ScoreComponents
		expected float64
	}{
		{"sum", ScoreComponents{Hard: 30, Semantic: 12.5}, 42.5},
		{"max", ScoreComponents{Hard: 50, Semantic: 50}, 100},
		{"clamped high", ScoreComponents{Hard: 80, Semantic: 50}, 100},
		{"clamped low", ScoreComponents{Hard: -5, Semantic: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.comps.Total())
		})
	}
}

func TestVerdict_Valid(t *testing.T) {
	assert.True(t, VerdictHigh.Valid())
	assert.True(t, VerdictError.Valid())
	assert.False(t, Verdict("Maybe").Valid())
}

func TestNewBatchStats(t *testing.T) {
	results := []EvaluationResult{
		{ResumeName: "a", TotalScore: 80, Verdict: VerdictHigh},
		{ResumeName: "b", TotalScore: 40, Verdict: VerdictLow},
		{ResumeName: "c", TotalScore: 0, Verdict: VerdictError},
	}

	stats := NewBatchStats(results, 2*time.Second)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Errors)
	assert.InDelta(t, 60.0, stats.AverageScore, 0.001)
	assert.Equal(t, 1, stats.Verdicts[VerdictHigh])
	assert.Equal(t, 1, stats.Verdicts[VerdictError])
	assert.Equal(t, 2*time.Second, stats.Duration)
}

func TestNewBatchStats_Empty(t *testing.T) {
	stats := NewBatchStats(nil, 0)
	assert.Equal(t, 0, stats.Total)
	assert.Zero(t, stats.AverageScore)
}

func TestEvaluationResult_JSONKeepsZeroBatchTime(t *testing.T) {
	data, err := json.Marshal(EvaluationResult{ResumeName: "fast.txt", Verdict: VerdictLow, BatchSize: 3})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "batch_time")
	assert.Equal(t, 0.0, fields["batch_time"])
	assert.Equal(t, 3.0, fields["batch_size"])
}
