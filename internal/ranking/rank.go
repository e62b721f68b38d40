// Package ranking filters and orders evaluation results for display and export.
// None of this affects scoring; callers apply it after evaluation.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// Order is a result sort order
type Order string

// Sort orders
const (
	OrderScoreDesc Order = "score-desc"
	OrderScoreAsc  Order = "score-asc"
	OrderNameAsc   Order = "name-asc"
	OrderNameDesc  Order = "name-desc"
)

// ParseOrder validates a sort order name. Empty selects OrderScoreDesc.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderScoreDesc, nil
	case OrderScoreDesc, OrderScoreAsc, OrderNameAsc, OrderNameDesc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want score-desc, score-asc, name-asc or name-desc)", s)
	}
}

// Criteria selects results. Zero values do not filter.
type Criteria struct {
	MinScore      float64
	Verdicts      []types.Verdict
	IncludeErrors bool // keep Error results regardless of MinScore
}

// Filter returns the results matching c, preserving order.
func Filter(results []types.EvaluationResult, c Criteria) []types.EvaluationResult {
	allowed := make(map[types.Verdict]bool, len(c.Verdicts))
	for _, v := range c.Verdicts {
		allowed[v] = true
	}

	filtered := make([]types.EvaluationResult, 0, len(results))
	for _, r := range results {
		if len(allowed) > 0 && !allowed[r.Verdict] {
			continue
		}
		if r.TotalScore < c.MinScore && !(c.IncludeErrors && r.Failed()) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Sort orders results in place. Ties keep their relative order, then break by name.
func Sort(results []types.EvaluationResult, order Order) {
	less := func(a, b types.EvaluationResult) bool {
		switch order {
		case OrderScoreAsc:
			if a.TotalScore != b.TotalScore {
				return a.TotalScore < b.TotalScore
			}
		case OrderNameAsc:
			return a.ResumeName < b.ResumeName
		case OrderNameDesc:
			return a.ResumeName > b.ResumeName
		default:
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
		}
		return a.ResumeName < b.ResumeName
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}

// Limit returns at most n results. A non-positive n returns all of them.
func Limit(results []types.EvaluationResult, n int) []types.EvaluationResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
