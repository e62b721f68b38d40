package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(FeedbackFile, "system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "professional resume advisor")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(FeedbackFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_SuggestionsTemplate(t *testing.T) {
	ClearCache()

	prompt := MustGet(FeedbackFile, "suggestions")
	assert.Contains(t, prompt, "{{.Resume}}")
	assert.Contains(t, prompt, "{{.JobDescription}}")
	assert.Contains(t, prompt, "3 specific suggestions")
}

func TestFormat(t *testing.T) {
	template := "Resume: {{.Resume}}\nJD: {{.JobDescription}}\nAgain: {{.Resume}}"

	result := Format(template, map[string]string{
		"Resume":         "go developer",
		"JobDescription": "need go",
	})

	assert.Equal(t, "Resume: go developer\nJD: need go\nAgain: go developer", result)
}

func TestFormat_UnknownPlaceholderKept(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}
