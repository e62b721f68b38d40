package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/observability"
	"github.com/jonathan/resume-evaluator/internal/ranking"
	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume files, directories or patterns...]",
	Short: "Evaluate many resumes against one job description",
	Long: `Evaluate many resumes concurrently against one job description.

Resumes may be given as files, directories (every .pdf, .txt and .md file inside) or
glob patterns. Each resume is bounded by --timeout; a resume that fails or times out
is reported with an Error verdict and does not affect the others.

Results are filtered by --min-score and --verdict, ordered by --sort and cut to --limit.`,
	RunE: runBatch,
}

var (
	batchFlags    evalFlags
	batchResumes  []string
	batchWorkers  int
	batchTimeout  int
	batchMinScore float64
	batchVerdicts []string
	batchSort     string
	batchLimit    int
	batchStats    bool
)

func init() {
	bindEvalFlags(batchCmd, &batchFlags)
	batchCmd.Flags().StringSliceVarP(&batchResumes, "resumes", "r", nil, "Resume files, directories or patterns (comma-separated)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent evaluations (1-8)")
	batchCmd.Flags().IntVar(&batchTimeout, "timeout", 0, "Per-resume timeout in seconds")
	batchCmd.Flags().Float64Var(&batchMinScore, "min-score", 0, "Hide results scoring below this value")
	batchCmd.Flags().StringSliceVar(&batchVerdicts, "verdict", nil, "Only show these verdicts (High, Medium, Low, Error)")
	batchCmd.Flags().StringVar(&batchSort, "sort", "", "Result order: score-desc, score-asc, name-asc or name-desc")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "Show at most this many results")
	batchCmd.Flags().BoolVar(&batchStats, "stats", true, "Print the batch summary")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := collectResumePaths(append(append([]string{}, batchResumes...), args...))
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(func(c *config.Config) {
		batchFlags.apply(cmd, c)
		if len(paths) > 0 {
			c.Resumes = nil
		}
		flags := cmd.Flags()
		if flags.Changed("workers") {
			c.Workers = batchWorkers
		}
		if flags.Changed("timeout") {
			c.TaskTimeoutSeconds = batchTimeout
		}
		if flags.Changed("min-score") {
			c.MinScore = batchMinScore
		}
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if paths, err = collectResumePaths(cfg.Resumes); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no resumes given (pass files as arguments, use --resumes or set \"resumes\" in the config file)")
	}
	if cfg.Job == "" {
		return fmt.Errorf("job description is required (use --job or set \"job\" in the config file)")
	}

	criteria, order, err := rankingOptions(cfg.MinScore, batchVerdicts, batchSort)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	jd, err := ingestion.ReadJobDescription(cfg.Job)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	evaluator, cl, err := buildEvaluator(ctx, cfg, log, os.Stderr)
	if err != nil {
		return err
	}
	defer cl.Close()

	docs := openBatchDocuments(paths, os.Stderr)
	_, _ = fmt.Fprintf(os.Stdout, "Evaluating %d resume(s) with %d worker(s)...\n", len(docs), evaluator.Degree(len(docs)))

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintRequirements(evaluator.Requirements(jd))
	}

	start := time.Now()
	results := evaluator.EvaluateBatch(ctx, docs, jd)
	elapsed := time.Since(start)

	if batchFlags.save {
		saveResults(ctx, cfg, jd, results, os.Stderr)
	}

	shown := ranking.Filter(results, criteria)
	ranking.Sort(shown, order)
	shown = ranking.Limit(shown, batchLimit)

	printer.PrintRanking(shown)
	if cfg.Verbose {
		for _, r := range shown {
			printer.PrintResult(r)
		}
	}
	if batchStats {
		printer.PrintBatchStats(types.NewBatchStats(results, elapsed))
	}

	if batchFlags.outFile != "" {
		if err := writeResultsJSON(batchFlags.outFile, shown, os.Stderr); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote %d result(s) to %s\n", len(shown), batchFlags.outFile)
	}
	return nil
}

// rankingOptions parses the filter and sort flags
func rankingOptions(minScore float64, verdicts []string, sortOrder string) (ranking.Criteria, ranking.Order, error) {
	parsed, err := parseVerdicts(verdicts)
	if err != nil {
		return ranking.Criteria{}, "", err
	}
	order, err := ranking.ParseOrder(sortOrder)
	if err != nil {
		return ranking.Criteria{}, "", err
	}
	return ranking.Criteria{
		MinScore:      minScore,
		Verdicts:      parsed,
		IncludeErrors: len(parsed) == 0,
	}, order, nil
}

// parseVerdicts accepts verdict names in any case
func parseVerdicts(values []string) ([]types.Verdict, error) {
	verdicts := make([]types.Verdict, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		verdict := types.Verdict(strings.ToUpper(v[:1]) + strings.ToLower(v[1:]))
		if !verdict.Valid() {
			return nil, fmt.Errorf("unknown verdict %q (want High, Medium, Low or Error)", v)
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts, nil
}
