// Package types provides type definitions for structured data used throughout the resume-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// JobRequirements is the skill analysis of one job description.
// Both lists are lowercase, deduplicated and sorted so that equal inputs compare equal.
type JobRequirements struct {
	MustHave    []string `json:"must_have"`
	GoodToHave  []string `json:"good_to_have"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// NewJobRequirements builds JobRequirements from two term sets.
func NewJobRequirements(mustHave, goodToHave map[string]struct{}) JobRequirements {
	return JobRequirements{
		MustHave:   sortedKeys(mustHave),
		GoodToHave: sortedKeys(goodToHave),
	}
}

// AllSkills returns must-have terms followed by good-to-have terms.
func (r JobRequirements) AllSkills() []string {
	all := make([]string, 0, len(r.MustHave)+len(r.GoodToHave))
	all = append(all, r.MustHave...)
	return append(all, r.GoodToHave...)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
