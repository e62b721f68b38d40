package ranking

import (
	"testing"

	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []types.EvaluationResult {
	return []types.EvaluationResult{
		{ResumeName: "carol", TotalScore: 55, Verdict: types.VerdictMedium},
		{ResumeName: "alice", TotalScore: 82, Verdict: types.VerdictHigh},
		{ResumeName: "dave", TotalScore: 0, Verdict: types.VerdictError},
		{ResumeName: "bob", TotalScore: 55, Verdict: types.VerdictMedium},
		{ResumeName: "erin", TotalScore: 20, Verdict: types.VerdictLow},
	}
}

func names(results []types.EvaluationResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ResumeName
	}
	return out
}

func TestFilter_MinScore(t *testing.T) {
	got := Filter(sample(), Criteria{MinScore: 50})
	assert.Equal(t, []string{"carol", "alice", "bob"}, names(got))
}

func TestFilter_Verdicts(t *testing.T) {
	got := Filter(sample(), Criteria{Verdicts: []types.Verdict{types.VerdictHigh, types.VerdictLow}})
	assert.Equal(t, []string{"alice", "erin"}, names(got))
}

func TestFilter_IncludeErrors(t *testing.T) {
	got := Filter(sample(), Criteria{MinScore: 60, IncludeErrors: true})
	assert.Equal(t, []string{"alice", "dave"}, names(got))
}

func TestFilter_ZeroCriteriaKeepsAll(t *testing.T) {
	assert.Len(t, Filter(sample(), Criteria{}), 5)
}

func TestSort(t *testing.T) {
	tests := []struct {
		order    Order
		expected []string
	}{
		{OrderScoreDesc, []string{"alice", "bob", "carol", "erin", "dave"}},
		{OrderScoreAsc, []string{"dave", "erin", "bob", "carol", "alice"}},
		{OrderNameAsc, []string{"alice", "bob", "carol", "dave", "erin"}},
		{OrderNameDesc, []string{"erin", "dave", "carol", "bob", "alice"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			results := sample()
			Sort(results, tt.order)
			assert.Equal(t, tt.expected, names(results))
		})
	}
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderScoreDesc, order)

	order, err = ParseOrder(" Name-Asc ")
	require.NoError(t, err)
	assert.Equal(t, OrderNameAsc, order)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}

func TestLimit(t *testing.T) {
	assert.Len(t, Limit(sample(), 2), 2)
	assert.Len(t, Limit(sample(), 0), 5)
	assert.Len(t, Limit(sample(), 10), 5)
}
