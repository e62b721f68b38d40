// Package evaluation composes extraction, skill analysis, scoring and feedback into
// one result per resume, and evaluates batches of resumes against one job description.
package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-evaluator/internal/feedback"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/matching"
	"github.com/jonathan/resume-evaluator/internal/semantic"
	"github.com/jonathan/resume-evaluator/internal/skills"
	"github.com/jonathan/resume-evaluator/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Feedback texts of Error results
const (
	MessageExtractionFailed = "Could not extract text from resume"
	processingErrorFormat   = "Processing error: %s"
	timeoutErrorFormat      = "Processing timeout or error: %s"
)

// TextExtractor pulls bounded text out of a resume document
type TextExtractor interface {
	Extract(doc ingestion.Document) ingestion.Extraction
}

// Deps are the pipeline stages. Nil fields are replaced with default implementations.
type Deps struct {
	Extractor TextExtractor
	Skills    *skills.Cache
	Matcher   *matching.Matcher
	Scorer    *semantic.Scorer
	Feedback  *feedback.Generator
	Logger    *zap.Logger
}

// Options configures evaluation behaviour
type Options struct {
	SkipFeedback    bool
	Workers         int           // batch concurrency
	TaskTimeout     time.Duration // per-resume bound in a batch
	SequentialBelow int           // batches of at most this many resumes use one worker
	Thresholds      Thresholds
}

// DefaultOptions returns two workers, a 60 second task timeout and the default thresholds.
func DefaultOptions() Options {
	return Options{
		Workers:         2,
		TaskTimeout:     60 * time.Second,
		SequentialBelow: 2,
		Thresholds:      DefaultThresholds(),
	}
}

// Evaluator scores resumes. Each Evaluator owns its own skill cache.
type Evaluator struct {
	extractor TextExtractor
	skills    *skills.Cache
	matcher   *matching.Matcher
	scorer    *semantic.Scorer
	feedback  *feedback.Generator
	logger    *zap.Logger
	opts      Options
}

// New creates an Evaluator.
func New(deps Deps, opts Options) (*Evaluator, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must be non-negative, got %d", opts.Workers)
	}
	if opts.TaskTimeout < 0 {
		return nil, fmt.Errorf("task timeout must be non-negative, got %s", opts.TaskTimeout)
	}
	if opts.Thresholds.Medium > opts.Thresholds.High {
		return nil, fmt.Errorf("medium threshold %.2f exceeds high threshold %.2f",
			opts.Thresholds.Medium, opts.Thresholds.High)
	}

	defaults := DefaultOptions()
	if opts.Workers == 0 {
		opts.Workers = defaults.Workers
	}
	if opts.TaskTimeout == 0 {
		opts.TaskTimeout = defaults.TaskTimeout
	}
	if opts.SequentialBelow <= 0 {
		opts.SequentialBelow = defaults.SequentialBelow
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = defaults.Thresholds
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Evaluator{
		extractor: deps.Extractor,
		skills:    deps.Skills,
		matcher:   deps.Matcher,
		scorer:    deps.Scorer,
		feedback:  deps.Feedback,
		logger:    log,
		opts:      opts,
	}
	if e.extractor == nil {
		e.extractor = ingestion.NewExtractor(ingestion.DefaultOptions(), log)
	}
	if e.skills == nil {
		e.skills = skills.NewCache(skills.NewExtractor(0, log), nil)
	}
	if e.matcher == nil {
		e.matcher = matching.NewMatcher(matching.DefaultOptions(), matching.LevenshteinMatcher{})
	}
	if e.scorer == nil {
		e.scorer = semantic.NewScorer(semantic.DefaultOptions(), nil, log)
	}
	if e.feedback == nil {
		e.feedback = feedback.NewGenerator(nil, feedback.DefaultOptions(), log)
	}
	return e, nil
}

// Cache returns the evaluator's job description cache.
func (e *Evaluator) Cache() *skills.Cache {
	return e.skills
}

// Requirements returns the cached skill analysis of jd.
func (e *Evaluator) Requirements(jd string) types.JobRequirements {
	req, _ := e.skills.Get(jd)
	return req
}

// Evaluate scores one resume against jd. It never panics and never returns an error;
// failures are reported as results with the Error verdict.
func (e *Evaluator) Evaluate(ctx context.Context, doc ingestion.Document, jd string) (result types.EvaluationResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panicked", zap.String(logger.FieldResume, doc.Name), zap.Any("panic", r))
			result = errorResult(doc.Name, fmt.Sprintf(processingErrorFormat, fmt.Sprint(r)), start)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errorResult(doc.Name, fmt.Sprintf(processingErrorFormat, err), start)
	}

	extraction := e.extractor.Extract(doc)
	if extraction.Degraded || extraction.Text == "" {
		return errorResult(doc.Name, MessageExtractionFailed, start)
	}
	text := extraction.Text

	req, hit := e.skills.Get(jd)

	comps, missing, err := e.score(ctx, text, req)
	if err != nil {
		e.logger.Error("scoring failed", zap.String(logger.FieldResume, doc.Name), zap.Error(err))
		return errorResult(doc.Name, fmt.Sprintf(processingErrorFormat, err), start)
	}

	total := round2(comps.Total())

	var fb feedback.Result
	if e.opts.SkipFeedback {
		fb = feedback.Skipped()
	} else {
		fb = e.feedback.Generate(ctx, text, jd)
	}

	result = types.EvaluationResult{
		ResumeName:     doc.Name,
		TotalScore:     total,
		Verdict:        Classify(total, e.opts.Thresholds),
		MissingSkills:  missing,
		Feedback:       fb.Text,
		ProcessingTime: round2(time.Since(start).Seconds()),
		Components: types.ScoreComponents{
			Hard:     round2(comps.Hard),
			Semantic: round2(comps.Semantic),
		},
	}

	e.logger.Debug("resume evaluated",
		zap.String(logger.FieldResume, doc.Name),
		zap.Float64("total", result.TotalScore),
		zap.String("verdict", string(result.Verdict)),
		zap.Bool("requirements_cached", hit),
		zap.String("extraction", string(extraction.Method)),
		zap.String("feedback", string(fb.Source)))

	return result
}

// score runs the hard matcher and the semantic scorer concurrently.
func (e *Evaluator) score(ctx context.Context, text string, req types.JobRequirements) (types.ScoreComponents, []string, error) {
	var (
		hard matching.Result
		sem  semantic.Result
		g    errgroup.Group
	)

	g.Go(func() error {
		return guard("hard matcher", func() {
			hard = e.matcher.Match(text, req.MustHave)
		})
	})
	g.Go(func() error {
		return guard("semantic scorer", func() {
			sem = e.scorer.Score(ctx, text, req.AllSkills())
		})
	})
	if err := g.Wait(); err != nil {
		return types.ScoreComponents{}, nil, err
	}

	return types.ScoreComponents{Hard: hard.Score, Semantic: sem.Score}, hard.Missing, nil
}

// guard converts a panic in fn into an error.
func guard(stage string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", stage, r)
		}
	}()
	fn()
	return nil
}

func errorResult(name, message string, start time.Time) types.EvaluationResult {
	return types.EvaluationResult{
		ResumeName:     name,
		TotalScore:     0,
		Verdict:        types.VerdictError,
		MissingSkills:  []string{},
		Feedback:       message,
		ProcessingTime: round2(time.Since(start).Seconds()),
	}
}
