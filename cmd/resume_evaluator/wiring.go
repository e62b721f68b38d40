package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/evaluation"
	"github.com/jonathan/resume-evaluator/internal/feedback"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/llm"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/matching"
	"github.com/jonathan/resume-evaluator/internal/schemas"
	"github.com/jonathan/resume-evaluator/internal/semantic"
	"github.com/jonathan/resume-evaluator/internal/skills"
	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// evalFlags are the flags shared by evaluate and batch
type evalFlags struct {
	job          string
	skipFeedback bool
	provider     string
	model        string
	apiKey       string
	embeddings   bool
	maxChars     int
	maxPages     int
	outFile      string
	save         bool
	databaseURL  string
}

func bindEvalFlags(cmd *cobra.Command, f *evalFlags) {
	cmd.Flags().StringVarP(&f.job, "job", "j", "", "Path to job description text file")
	cmd.Flags().BoolVar(&f.skipFeedback, "skip-feedback", false, "Skip feedback generation for faster processing")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Feedback provider: gemini or openrouter")
	cmd.Flags().StringVar(&f.model, "model", "", "Override the feedback model")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for the feedback provider (overrides GEMINI_API_KEY / OPENROUTER_API_KEY)")
	cmd.Flags().BoolVar(&f.embeddings, "embeddings", false, "Use Gemini embeddings for the semantic score when available")
	cmd.Flags().IntVar(&f.maxChars, "max-chars", 0, "Resume text budget in characters")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 0, "PDF pages read per resume")
	cmd.Flags().StringVarP(&f.outFile, "out", "o", "", "Write results as JSON to this file")
	cmd.Flags().BoolVar(&f.save, "save", false, "Store results in the database")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
}

// apply copies explicitly set flags over cfg
func (f *evalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("job") {
		cfg.Job = f.job
	}
	if flags.Changed("skip-feedback") {
		cfg.SkipFeedback = f.skipFeedback
	}
	if flags.Changed("provider") {
		cfg.FeedbackProvider = f.provider
	}
	if flags.Changed("model") {
		cfg.Model = f.model
	}
	if flags.Changed("api-key") {
		// provider is already applied, so the key goes to the chosen one
		if llm.Provider(cfg.FeedbackProvider) == llm.ProviderOpenRouter {
			cfg.OpenRouterAPIKey = f.apiKey
		} else {
			cfg.APIKey = f.apiKey
		}
	}
	if flags.Changed("embeddings") {
		cfg.UseEmbeddings = f.embeddings
	}
	if flags.Changed("max-chars") {
		cfg.MaxChars = f.maxChars
	}
	if flags.Changed("max-pages") {
		cfg.MaxPages = f.maxPages
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
}

// resolveConfig loads the --config file, lets apply override it, then fills
// defaults and environment values and validates the result.
func resolveConfig(apply func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if apply != nil {
		apply(&cfg)
	}
	if rootVerbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *config.Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.OpenRouterAPIKey == "" {
		cfg.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(rootLogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// feedbackAPIKey returns the key of the configured provider
func feedbackAPIKey(cfg config.Config) string {
	if llm.Provider(cfg.FeedbackProvider) == llm.ProviderOpenRouter {
		return cfg.OpenRouterAPIKey
	}
	return cfg.APIKey
}

// closers releases resources created while wiring the evaluator
type closers struct {
	mu  sync.Mutex
	fns []func() error
}

func (c *closers) add(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

func (c *closers) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.fns) - 1; i >= 0; i-- {
		_ = c.fns[i]()
	}
	c.fns = nil
}

// newFeedbackClient returns nil when feedback is skipped or no key is
// configured; the generator then uses rule-based feedback.
func newFeedbackClient(ctx context.Context, cfg config.Config, stderr io.Writer) llm.Client {
	if cfg.SkipFeedback {
		return nil
	}
	provider := llm.Provider(cfg.FeedbackProvider)
	apiKey := feedbackAPIKey(cfg)
	if apiKey == "" {
		_, _ = fmt.Fprintf(stderr, "Warning: no API key for %s, using rule-based feedback\n", provider)
		return nil
	}

	client, err := llm.NewClient(ctx, feedback.ClientConfig(provider, cfg.Model), apiKey)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: feedback service unavailable, using rule-based feedback: %v\n", err)
		return nil
	}
	return client
}

// embeddingLoader creates the Gemini embedder on first use. The client outlives
// the task that triggers the load, so it does not inherit its cancellation.
func embeddingLoader(cfg config.Config, cl *closers) semantic.Loader {
	return func(ctx context.Context) (semantic.Embedder, error) {
		embedder, err := llm.NewGeminiEmbedder(context.WithoutCancel(ctx), cfg.APIKey, "")
		if err != nil {
			return nil, err
		}
		cl.add(embedder.Close)
		return embedder, nil
	}
}

func evaluationOptions(cfg config.Config) evaluation.Options {
	return evaluation.Options{
		SkipFeedback:    cfg.SkipFeedback,
		Workers:         cfg.Workers,
		TaskTimeout:     time.Duration(cfg.TaskTimeoutSeconds) * time.Second,
		SequentialBelow: cfg.SequentialBelow,
		Thresholds: evaluation.Thresholds{
			High:   cfg.HighThreshold,
			Medium: cfg.MediumThreshold,
		},
	}
}

func matchingOptions(cfg config.Config) matching.Options {
	opts := matching.DefaultOptions()
	opts.ExactPoints = cfg.ExactPoints
	opts.FuzzyPoints = cfg.FuzzyPoints
	opts.WordPoints = cfg.WordPoints
	opts.FuzzyThreshold = cfg.FuzzyThreshold
	opts.Cap = cfg.HardCap
	return opts
}

func semanticOptions(cfg config.Config) semantic.Options {
	opts := semantic.DefaultOptions()
	opts.Cap = cfg.SemanticCap
	opts.UseEmbeddings = cfg.UseEmbeddings
	return opts
}

// buildEvaluator wires every pipeline stage from cfg. The returned closers
// must be closed once evaluation is finished.
func buildEvaluator(ctx context.Context, cfg config.Config, log *zap.Logger, stderr io.Writer) (*evaluation.Evaluator, *closers, error) {
	cl := &closers{}

	client := newFeedbackClient(ctx, cfg, stderr)
	if client != nil {
		cl.add(client.Close)
	}

	var loader semantic.Loader
	if cfg.UseEmbeddings {
		loader = embeddingLoader(cfg, cl)
	}

	feedbackLog := logger.WithProvider(log, cfg.FeedbackProvider, cfg.Model)
	evaluator, err := evaluation.New(evaluation.Deps{
		Extractor: ingestion.NewExtractor(ingestion.Options{MaxChars: cfg.MaxChars, MaxPages: cfg.MaxPages}, log),
		Skills:    skills.NewCache(skills.NewExtractor(cfg.JDMaxChars, log), &sync.Mutex{}),
		Matcher:   matching.NewMatcher(matchingOptions(cfg), matching.LevenshteinMatcher{}),
		Scorer:    semantic.NewScorer(semanticOptions(cfg), loader, log),
		Feedback: feedback.NewGenerator(client, feedback.Options{
			RatePerSecond: cfg.FeedbackRatePerSecond,
			Timeout:       feedback.DefaultOptions().Timeout,
		}, feedbackLog),
		Logger: log,
	}, evaluationOptions(cfg))
	if err != nil {
		cl.Close()
		return nil, nil, fmt.Errorf("failed to create evaluator: %w", err)
	}
	return evaluator, cl, nil
}

// collectResumePaths expands directories and glob patterns into a sorted,
// deduplicated list of resume files.
func collectResumePaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	addPath := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
			}
			for _, entry := range entries {
				if entry.IsDir() || !isResumeFile(entry.Name()) {
					continue
				}
				addPath(filepath.Join(arg, entry.Name()))
			}
			continue
		}
		if err == nil {
			addPath(arg)
			continue
		}

		matches, globErr := filepath.Glob(arg)
		if globErr != nil {
			return nil, fmt.Errorf("invalid resume pattern %s: %w", arg, globErr)
		}
		if len(matches) == 0 {
			// Kept so that the batch reports it as an Error result
			addPath(arg)
			continue
		}
		for _, m := range matches {
			addPath(m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func isResumeFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// openBatchDocuments opens every path. Unreadable files become documents
// without content so that they surface as Error results.
func openBatchDocuments(paths []string, stderr io.Writer) []ingestion.Document {
	docs := make([]ingestion.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := ingestion.OpenDocument(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
			doc = ingestion.Document{Name: filepath.Base(path)}
		}
		docs = append(docs, doc)
	}
	return docs
}

// writeResultsJSON writes results to path and checks them against the result schema.
func writeResultsJSON(path string, results []types.EvaluationResult, stderr io.Writer) error {
	if results == nil {
		results = []types.EvaluationResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := schemas.ValidateResultsFile(path); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: output does not match the result schema: %v\n", err)
	}
	return nil
}

// saveResults stores results when a database is configured. Failures only warn.
func saveResults(ctx context.Context, cfg config.Config, jd string, results []types.EvaluationResult, stderr io.Writer) {
	if cfg.DatabaseURL == "" {
		_, _ = fmt.Fprintf(stderr, "Warning: --save requires a database URL (set DATABASE_URL or use --db-url)\n")
		return
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to save results: %v\n", err)
		return
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to save results: %v\n", err)
		return
	}
	ids, err := database.SaveResults(ctx, filepath.Base(cfg.Job), skills.Fingerprint(jd), results)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to save results: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(os.Stdout, "Saved %d result(s) to database\n", len(ids))
}
