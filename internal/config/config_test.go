package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"job": "jd.txt",
		"resumes": ["a.pdf", "b.txt"],
		"workers": 3,
		"task_timeout_seconds": 30,
		"min_score": 40,
		"skip_feedback": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "jd.txt", cfg.Job)
	assert.Equal(t, []string{"a.pdf", "b.txt"}, cfg.Resumes)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 30, cfg.TaskTimeoutSeconds)
	assert.Equal(t, 40.0, cfg.MinScore)
	assert.True(t, cfg.SkipFeedback)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ZeroConfig(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_FieldRanges(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"too many workers", Config{Workers: 20}, "workers"},
		{"negative workers", Config{Workers: -1}, "workers"},
		{"threshold above 100", Config{FuzzyThreshold: 150}, "fuzzy_threshold"},
		{"negative timeout", Config{TaskTimeoutSeconds: -5}, "task_timeout_seconds"},
		{"unknown provider", Config{FeedbackProvider: "mystery"}, "feedback_provider"},
		{"min score above 100", Config{MinScore: 101}, "min_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_ThresholdOrder(t *testing.T) {
	cfg := &Config{HighThreshold: 40, MediumThreshold: 60}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "medium_threshold")
}

func TestValidate_CapsSum(t *testing.T) {
	cfg := &Config{HardCap: 70, SemanticCap: 50}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "hard_cap")
}

func TestValidate_MissingFiles(t *testing.T) {
	cfg := &Config{Job: "/nonexistent/jd.txt"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "job file not found")

	cfg = &Config{Resumes: []string{"/nonexistent/cv.pdf"}}
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resume file not found")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Workers:  4,
		MinScore: 30,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 4, merged.Workers, "explicit value should win")
	assert.Equal(t, 30.0, merged.MinScore)
	assert.Equal(t, 60, merged.TaskTimeoutSeconds)
	assert.Equal(t, 3000, merged.MaxChars)
	assert.Equal(t, 3, merged.MaxPages)
	assert.Equal(t, 70.0, merged.FuzzyThreshold)
	assert.Equal(t, 10.0, merged.ExactPoints)
	assert.Equal(t, "gemini", merged.FeedbackProvider)
	assert.NoError(t, merged.Validate())
}

func TestMergeWithDefaults_BoolsNotMerged(t *testing.T) {
	cfg := &Config{}
	merged := cfg.MergeWithDefaults(Config{SkipFeedback: true, Verbose: true})

	assert.False(t, merged.SkipFeedback)
	assert.False(t, merged.Verbose)
}
