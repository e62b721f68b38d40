// Package skills derives must-have and good-to-have skill terms from job descriptions.
//
// Extraction is keyword and pattern based so that it stays in the millisecond range.
// A Cache keyed by content fingerprint lets a batch analyse each job description once.
package skills

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-evaluator/internal/types"
	"go.uber.org/zap"
)

// DefaultMaxChars is the job description budget for extraction
const DefaultMaxChars = 2000

// requirementPatterns capture explicitly flagged requirement phrases
var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:required|must have|essential)[\s\w]*?:\s*([^.]+)`),
	regexp.MustCompile(`(?i)(?:experience with|knowledge of|proficient in)\s+([^.]+)`),
}

// Result is the outcome of one extraction.
// Degraded is set when the default skill set was returned instead of a real analysis.
type Result struct {
	Requirements types.JobRequirements
	Degraded     bool
	Reason       string
}

// Extractor extracts skill terms from job description text
type Extractor struct {
	maxChars int
	logger   *zap.Logger
}

// NewExtractor creates an Extractor with the given character budget (0 means default).
func NewExtractor(maxChars int, logger *zap.Logger) *Extractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{maxChars: maxChars, logger: logger}
}

// Extract returns the skill requirements of jd. It always returns a usable result.
func (e *Extractor) Extract(jd string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = e.fallback(fmt.Sprintf("extraction panic: %v", r))
		}
	}()

	if !utf8.ValidString(jd) {
		return e.fallback("job description is not valid UTF-8")
	}
	if strings.TrimSpace(jd) == "" {
		return e.fallback("job description is empty")
	}

	text := strings.ToLower(truncate(jd, e.maxChars))

	mustHave := make(map[string]struct{})
	goodToHave := make(map[string]struct{})

	for _, term := range technicalTerms {
		if strings.Contains(text, term) {
			mustHave[term] = struct{}{}
		}
	}
	for _, term := range softTerms {
		if strings.Contains(text, term) {
			goodToHave[term] = struct{}{}
		}
	}

	for _, phrase := range requirementPhrases(text) {
		for _, term := range technicalTerms[:patternTermLimit] {
			if strings.Contains(phrase, term) {
				mustHave[term] = struct{}{}
			}
		}
	}

	return Result{Requirements: types.NewJobRequirements(mustHave, goodToHave)}
}

// requirementPhrases returns the captured phrase of every pattern match in text.
func requirementPhrases(text string) []string {
	var phrases []string
	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if len(match) > 1 {
				phrases = append(phrases, match[1])
			}
		}
	}
	return phrases
}

func (e *Extractor) fallback(reason string) Result {
	e.logger.Warn("skill extraction fell back to default skills", zap.String("reason", reason))
	return Result{
		Requirements: DefaultRequirements(),
		Degraded:     true,
		Reason:       reason,
	}
}

// DefaultRequirements returns the minimal skill set used when extraction cannot run.
func DefaultRequirements() types.JobRequirements {
	return types.NewJobRequirements(toSet(defaultMustHave), toSet(defaultGoodToHave))
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
