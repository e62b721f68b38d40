// Package feedback generates short improvement suggestions for a resume.
//
// The remote path asks an LLM for suggestions. Any failure there falls back to RuleBased,
// so Generate always returns usable text.
package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/resume-evaluator/internal/llm"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/prompts"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// SkippedPlaceholder is the feedback of evaluations run in skip mode
	SkippedPlaceholder = "Feedback skipped for faster processing"

	// Generation settings for the remote path
	temperature     = 0.7
	maxOutputTokens = 200

	logPreviewChars = 120
)

// Source identifies how feedback was produced
type Source string

// Feedback sources
const (
	SourceLLM     Source = "llm"
	SourceRules   Source = "rules"
	SourceSkipped Source = "skipped"
)

// Result is generated feedback with its source.
// Err is set when the remote path was attempted and failed.
type Result struct {
	Text   string
	Source Source
	Err    error
}

// Options configures feedback generation
type Options struct {
	RatePerSecond float64       // remote calls per second; 0 disables limiting
	Timeout       time.Duration // bound on one remote call
}

// DefaultOptions returns conservative remote-call settings.
func DefaultOptions() Options {
	return Options{RatePerSecond: 1, Timeout: 20 * time.Second}
}

// Generator produces feedback, preferring the LLM client when one is configured
type Generator struct {
	client  llm.Client
	limiter *rate.Limiter
	opts    Options
	logger  *zap.Logger
}

// NewGenerator creates a Generator. A nil client disables the remote path.
func NewGenerator(client llm.Client, opts Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{client: client, opts: opts, logger: log}
	if opts.RatePerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return g
}

// Available reports whether the remote path is configured.
func (g *Generator) Available() bool {
	return g.client != nil
}

// Skipped returns the placeholder result used in skip mode.
func Skipped() Result {
	return Result{Text: SkippedPlaceholder, Source: SourceSkipped}
}

// Generate returns feedback for resume against jd.
func (g *Generator) Generate(ctx context.Context, resume, jd string) Result {
	if g.client == nil {
		return Result{Text: RuleBased(resume, jd), Source: SourceRules}
	}

	text, err := g.remote(ctx, resume, jd)
	if err != nil {
		g.logger.Warn("feedback service failed, using rule-based feedback", zap.Error(err))
		return Result{Text: RuleBased(resume, jd), Source: SourceRules, Err: err}
	}
	return Result{Text: text, Source: SourceLLM}
}

func (g *Generator) remote(ctx context.Context, resume, jd string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &ServiceError{Message: "rate limit wait aborted", Cause: err}
		}
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	prompt, err := BuildPrompt(resume, jd)
	if err != nil {
		return "", &ServiceError{Message: "failed to build prompt", Cause: err}
	}

	g.logger.Debug("requesting feedback",
		zap.String("model", g.client.GetModel(llm.TierLite)),
		zap.Int("prompt_chars", len(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, logPreviewChars)))

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &ServiceError{Message: "generation failed", Cause: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ServiceError{Message: "empty response"}
	}
	g.logger.Debug("feedback received", zap.String("response_preview", logger.TruncateForLog(text, logPreviewChars)))
	return text, nil
}

// BuildPrompt fills the suggestions template with 1000-character excerpts of both texts.
func BuildPrompt(resume, jd string) (string, error) {
	template, err := prompts.Get(prompts.FeedbackFile, "suggestions")
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{
		"Resume":         excerpt(resume, excerptChars),
		"JobDescription": excerpt(jd, excerptChars),
	}), nil
}

// ClientConfig returns the model configuration used for feedback calls on provider.
func ClientConfig(provider llm.Provider, model string) *llm.Config {
	config := llm.ConfigFor(provider).WithGeneration(temperature, maxOutputTokens,
		prompts.MustGet(prompts.FeedbackFile, "system"))
	if model != "" {
		config = config.WithModel(llm.TierLite, model)
	}
	return config
}
