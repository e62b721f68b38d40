package feedback

import (
	"fmt"
	"strings"
)

const (
	// Separator joins individual feedback points
	Separator = " • "

	// MessageMatchesWell is returned when no rule fires
	MessageMatchesWell = "Resume matches job requirements well"
	// MessageAddExperience is suggested for short resumes when experience is asked for
	MessageAddExperience = "Add more work experience details"

	excerptChars       = 1000
	minResumeWords     = 150
	maxReportedMissing = 2
)

// quickSkills are the technologies checked by the rule-based generator
var quickSkills = []string{"python", "java", "javascript", "react", "sql", "aws"}

// RuleBased produces deterministic feedback from the first 1000 characters of each text.
func RuleBased(resume, jd string) string {
	jdLower := strings.ToLower(excerpt(jd, excerptChars))
	resumeLower := strings.ToLower(excerpt(resume, excerptChars))

	var points []string

	var missing []string
	for _, skill := range quickSkills {
		if strings.Contains(jdLower, skill) && !strings.Contains(resumeLower, skill) {
			missing = append(missing, skill)
		}
	}
	if len(missing) > 0 {
		points = append(points, fmt.Sprintf("Add skills: %s", strings.Join(missing[:min(len(missing), maxReportedMissing)], ", ")))
	}

	// Word count uses the whole resume, not the excerpt
	if strings.Contains(jdLower, "experience") && len(strings.Fields(resume)) < minResumeWords {
		points = append(points, MessageAddExperience)
	}

	if len(points) == 0 {
		points = append(points, MessageMatchesWell)
	}

	return strings.Join(points, Separator)
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
