// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Job     string   `json:"job,omitempty"`     // Path to job description text file
	Resumes []string `json:"resumes,omitempty"` // Paths to resume files (PDF or text)

	// Batch behaviour
	SkipFeedback       bool    `json:"skip_feedback,omitempty"`                                     // Use the placeholder instead of generating feedback
	Workers            int     `json:"workers,omitempty" validate:"omitempty,min=1,max=8"`          // Concurrent evaluations in a batch
	TaskTimeoutSeconds int     `json:"task_timeout_seconds,omitempty" validate:"omitempty,min=1"`   // Per-resume timeout in a batch
	MinScore           float64 `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`      // Results below this score are hidden
	SequentialBelow    int     `json:"sequential_below,omitempty" validate:"omitempty,min=1"`       // Batches of this size or smaller run on one worker

	// Extraction limits
	MaxChars   int `json:"max_chars,omitempty" validate:"omitempty,min=1"`    // Resume text budget in characters
	MaxPages   int `json:"max_pages,omitempty" validate:"omitempty,min=1"`    // PDF pages read per resume
	JDMaxChars int `json:"jd_max_chars,omitempty" validate:"omitempty,min=1"` // Job description budget for skill extraction

	// Scoring
	FuzzyThreshold  float64 `json:"fuzzy_threshold,omitempty" validate:"omitempty,min=0,max=100"`
	ExactPoints     float64 `json:"exact_points,omitempty" validate:"omitempty,min=0"`
	FuzzyPoints     float64 `json:"fuzzy_points,omitempty" validate:"omitempty,min=0"`
	WordPoints      float64 `json:"word_points,omitempty" validate:"omitempty,min=0"`
	HardCap         float64 `json:"hard_cap,omitempty" validate:"omitempty,min=0,max=100"`
	SemanticCap     float64 `json:"semantic_cap,omitempty" validate:"omitempty,min=0,max=100"`
	HighThreshold   float64 `json:"high_threshold,omitempty" validate:"omitempty,min=0,max=100"`
	MediumThreshold float64 `json:"medium_threshold,omitempty" validate:"omitempty,min=0,max=100"`
	UseEmbeddings   bool    `json:"use_embeddings,omitempty"` // Score with Gemini embeddings when available

	// Feedback service
	FeedbackProvider      string  `json:"feedback_provider,omitempty" validate:"omitempty,oneof=gemini openrouter"`
	APIKey                string  `json:"api_key,omitempty"`            // Gemini API key
	OpenRouterAPIKey      string  `json:"openrouter_api_key,omitempty"` // OpenRouter API key
	Model                 string  `json:"model,omitempty"`              // Overrides the provider's default model
	FeedbackRatePerSecond float64 `json:"feedback_rate_per_second,omitempty" validate:"omitempty,gt=0"`

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Workers:               2,
		TaskTimeoutSeconds:    60,
		SequentialBelow:       2,
		MaxChars:              3000,
		MaxPages:              3,
		JDMaxChars:            2000,
		FuzzyThreshold:        70,
		ExactPoints:           10,
		FuzzyPoints:           8,
		WordPoints:            6,
		HardCap:               50,
		SemanticCap:           50,
		HighThreshold:         75,
		MediumThreshold:       50,
		FeedbackProvider:      "gemini",
		FeedbackRatePerSecond: 1,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Zero values are accepted since they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.MediumThreshold != 0 && c.HighThreshold != 0 && c.MediumThreshold > c.HighThreshold {
		return fmt.Errorf("config error: 'medium_threshold' must not exceed 'high_threshold'")
	}
	if c.HardCap+c.SemanticCap > 100 {
		return fmt.Errorf("config error: 'hard_cap' + 'semantic_cap' must not exceed 100")
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}
	for _, resume := range c.Resumes {
		if _, err := os.Stat(resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", resume)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if len(result.Resumes) == 0 {
		result.Resumes = defaults.Resumes
	}
	if result.FeedbackProvider == "" {
		result.FeedbackProvider = defaults.FeedbackProvider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OpenRouterAPIKey == "" {
		result.OpenRouterAPIKey = defaults.OpenRouterAPIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	mergeInt(&result.Workers, defaults.Workers)
	mergeInt(&result.TaskTimeoutSeconds, defaults.TaskTimeoutSeconds)
	mergeInt(&result.SequentialBelow, defaults.SequentialBelow)
	mergeInt(&result.MaxChars, defaults.MaxChars)
	mergeInt(&result.MaxPages, defaults.MaxPages)
	mergeInt(&result.JDMaxChars, defaults.JDMaxChars)

	// Float fields
	mergeFloat(&result.MinScore, defaults.MinScore)
	mergeFloat(&result.FuzzyThreshold, defaults.FuzzyThreshold)
	mergeFloat(&result.ExactPoints, defaults.ExactPoints)
	mergeFloat(&result.FuzzyPoints, defaults.FuzzyPoints)
	mergeFloat(&result.WordPoints, defaults.WordPoints)
	mergeFloat(&result.HardCap, defaults.HardCap)
	mergeFloat(&result.SemanticCap, defaults.SemanticCap)
	mergeFloat(&result.HighThreshold, defaults.HighThreshold)
	mergeFloat(&result.MediumThreshold, defaults.MediumThreshold)
	mergeFloat(&result.FeedbackRatePerSecond, defaults.FeedbackRatePerSecond)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func mergeFloat(dst *float64, def float64) {
	if *dst == 0 {
		*dst = def
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
