package skills

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_VocabularyMatches(t *testing.T) {
	e := NewExtractor(0, nil)

	result := e.Extract("Looking for Python developer with React experience and strong Communication")

	require.False(t, result.Degraded)
	assert.Contains(t, result.Requirements.MustHave, "python")
	assert.Contains(t, result.Requirements.MustHave, "react")
	assert.Equal(t, []string{"communication"}, result.Requirements.GoodToHave)
}

func TestExtract_SubstringSemantics(t *testing.T) {
	e := NewExtractor(0, nil)

	// "javascript" contains "java"; plain substring matching reports both
	result := e.Extract("Strong JavaScript skills")

	assert.Contains(t, result.Requirements.MustHave, "java")
	assert.Contains(t, result.Requirements.MustHave, "javascript")
}

func TestExtract_NoDuplicates(t *testing.T) {
	e := NewExtractor(0, nil)

	result := e.Extract("Required: python. Python, PYTHON and python again. Experience with python.")

	count := 0
	for _, term := range result.Requirements.MustHave {
		if term == "python" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtract_OutsideBudgetIgnored(t *testing.T) {
	e := NewExtractor(50, nil)

	jd := strings.Repeat("x", 60) + " kubernetes"
	result := e.Extract(jd)

	assert.NotContains(t, result.Requirements.MustHave, "kubernetes")
}

func TestExtract_NoMatches(t *testing.T) {
	e := NewExtractor(0, nil)

	result := e.Extract("We sell shoes")

	assert.False(t, result.Degraded)
	assert.Empty(t, result.Requirements.MustHave)
	assert.Empty(t, result.Requirements.GoodToHave)
}

func TestExtract_FallbackOnMalformedInput(t *testing.T) {
	e := NewExtractor(0, nil)

	tests := []struct {
		name string
		jd   string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"invalid utf8", "python \xff\xfe developer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract(tt.jd)
			assert.True(t, result.Degraded)
			assert.NotEmpty(t, result.Reason)
			assert.Equal(t, []string{"java", "javascript", "python"}, result.Requirements.MustHave)
			assert.Equal(t, []string{"communication", "teamwork"}, result.Requirements.GoodToHave)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := NewExtractor(0, nil)
	jd := "Must have: Docker, SQL. Knowledge of AWS and Git. Leadership and teamwork."

	first := e.Extract(jd)
	second := e.Extract(jd)

	assert.Equal(t, first, second)
}

func TestRequirementPhrases(t *testing.T) {
	phrases := requirementPhrases("required skills: java and sql. experience with react hooks. nothing else")

	require.Len(t, phrases, 2)
	assert.Equal(t, "java and sql", phrases[0])
	assert.Equal(t, "react hooks", phrases[1])
}

func TestVocabularyCopies(t *testing.T) {
	terms := TechnicalTerms()
	terms[0] = "cobol"

	assert.Equal(t, "python", technicalTerms[0])
	assert.Len(t, SoftTerms(), 10)
}
