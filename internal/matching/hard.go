// Package matching scores resume text against the must-have skills of a job description.
package matching

import (
	"strings"
)

// Strategy identifies which rule matched a skill
type Strategy string

// Match strategies in priority order
const (
	StrategyExact Strategy = "exact"
	StrategyFuzzy Strategy = "fuzzy"
	StrategyWord  Strategy = "word"
	StrategyNone  Strategy = "none"
)

// Options holds the point values and thresholds of the hard matcher
type Options struct {
	ExactPoints    float64
	FuzzyPoints    float64
	WordPoints     float64
	FuzzyThreshold float64 // partial ratio must exceed this
	Cap            float64
	MinWordLength  int // words of the fallback rule must be longer than this
}

// DefaultOptions returns the standard scoring values.
func DefaultOptions() Options {
	return Options{
		ExactPoints:    10,
		FuzzyPoints:    8,
		WordPoints:     6,
		FuzzyThreshold: 70,
		Cap:            50,
		MinWordLength:  2,
	}
}

// SkillMatch records how one must-have term was matched
type SkillMatch struct {
	Skill    string
	Strategy Strategy
	Points   float64
}

// Result is the hard-skill score of one resume.
// Missing keeps the must-have order of the input.
type Result struct {
	Score   float64
	Missing []string
	Matches []SkillMatch
}

// Matcher scores resumes against must-have skills
type Matcher struct {
	opts  Options
	fuzzy FuzzyMatcher
}

// NewMatcher creates a Matcher. With a nil fuzzy matcher, or one that panics, the word-level fallback rule is used instead.
func NewMatcher(opts Options, fuzzy FuzzyMatcher) *Matcher {
	return &Matcher{opts: opts, fuzzy: fuzzy}
}

// Match scores resume against mustHave. The first matching rule wins for each term.
func (m *Matcher) Match(resume string, mustHave []string) Result {
	text := strings.ToLower(resume)
	result := Result{
		Missing: make([]string, 0),
		Matches: make([]SkillMatch, 0, len(mustHave)),
	}

	var raw float64
	for _, skill := range mustHave {
		strategy, points := m.matchSkill(text, strings.ToLower(skill))
		result.Matches = append(result.Matches, SkillMatch{Skill: skill, Strategy: strategy, Points: points})
		if strategy == StrategyNone {
			result.Missing = append(result.Missing, skill)
			continue
		}
		raw += points
	}

	result.Score = min(raw, m.opts.Cap)
	return result
}

func (m *Matcher) matchSkill(text, skill string) (Strategy, float64) {
	if strings.Contains(text, skill) {
		return StrategyExact, m.opts.ExactPoints
	}

	if m.fuzzy != nil {
		if ratio, ok := m.partialRatio(skill, text); ok {
			if ratio > m.opts.FuzzyThreshold {
				return StrategyFuzzy, m.opts.FuzzyPoints
			}
			return StrategyNone, 0
		}
	}

	for _, word := range strings.Fields(skill) {
		if len(word) > m.opts.MinWordLength && strings.Contains(text, word) {
			return StrategyWord, m.opts.WordPoints
		}
	}
	return StrategyNone, 0
}

// partialRatio calls the fuzzy matcher, reporting false if it panicked.
func (m *Matcher) partialRatio(skill, text string) (ratio float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ratio, ok = 0, false
		}
	}()
	return m.fuzzy.PartialRatio(skill, text), true
}
