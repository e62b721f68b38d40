package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/observability"
	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one resume against a job description",
	Long: `Evaluate one resume (PDF or plain text) against a job description.

Prints the score, verdict, missing skills and feedback. Use --out to also write the
result as JSON and --save to store it in the database.`,
	RunE: runEvaluate,
}

var (
	evaluateFlags  evalFlags
	evaluateResume string
)

func init() {
	bindEvalFlags(evaluateCmd, &evaluateFlags)
	evaluateCmd.Flags().StringVarP(&evaluateResume, "resume", "r", "", "Path to resume file (PDF or text)")

	if err := evaluateCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(func(c *config.Config) {
		evaluateFlags.apply(cmd, c)
		c.Resumes = []string{evaluateResume}
	})
	if err != nil {
		return err
	}
	if cfg.Job == "" {
		return fmt.Errorf("job description is required (use --job or set \"job\" in the config file)")
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
	doc, err := ingestion.OpenDocument(evaluateResume)
	if err != nil {
		return err
	}

	ctx := context.Background()
	evaluator, cl, err := buildEvaluator(ctx, cfg, log, os.Stderr)
	if err != nil {
		return err
	}
	defer cl.Close()

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintRequirements(evaluator.Requirements(jd))
	}

	result := evaluator.Evaluate(ctx, doc, jd)
	printer.PrintResult(result)

	if evaluateFlags.outFile != "" {
		if err := writeResultsJSON(evaluateFlags.outFile, []types.EvaluationResult{result}, os.Stderr); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote result to %s\n", filepath.Clean(evaluateFlags.outFile))
	}
	if evaluateFlags.save {
		saveResults(ctx, cfg, jd, []types.EvaluationResult{result}, os.Stderr)
	}

	if result.Failed() {
		return fmt.Errorf("evaluation of %s failed: %s", result.ResumeName, result.Feedback)
	}
	return nil
}
