package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/observability"
	"github.com/jonathan/resume-evaluator/internal/types"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored evaluation results",
	Long:  "List evaluation results stored with --save, optionally filtered by job description name and verdict.",
	RunE:  runResults,
}

var (
	resultsDatabaseURL string
	resultsJDName      string
	resultsVerdict     string
	resultsLimit       int
	resultsOut         string
)

func init() {
	resultsCmd.Flags().StringVar(&resultsDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	resultsCmd.Flags().StringVar(&resultsJDName, "jd", "", "Only results whose job description name contains this text")
	resultsCmd.Flags().StringVar(&resultsVerdict, "verdict", "", "Only results with this verdict")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "Maximum number of results")
	resultsCmd.Flags().StringVarP(&resultsOut, "out", "o", "", "Write results as JSON to this file")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(func(c *config.Config) {
		if cmd.Flags().Changed("db-url") {
			c.DatabaseURL = resultsDatabaseURL
		}
	})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL environment variable or use --db-url flag)")
	}

	filter := db.SearchFilter{JDName: resultsJDName, Limit: resultsLimit}
	if resultsVerdict != "" {
		verdicts, err := parseVerdicts([]string{resultsVerdict})
		if err != nil {
			return err
		}
		filter.Verdict = verdicts[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	stored, err := database.SearchResults(ctx, filter)
	if err != nil {
		return err
	}

	results := make([]types.EvaluationResult, 0, len(stored))
	for _, s := range stored {
		results = append(results, s.ToEvaluationResult())
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "No stored results found\n")
	}
	printer := observability.NewPrinter(os.Stdout)
	for i, s := range stored {
		_, _ = fmt.Fprintf(os.Stdout, "%3d. %-30s %6.2f  %-6s  %s  %s\n",
			i+1, s.ResumeName, s.Score, s.Verdict, s.JDName, s.CreatedAt.Format(time.DateTime))
		if cfg.Verbose {
			printer.PrintResult(results[i])
		}
	}

	if resultsOut != "" {
		if err := writeResultsJSON(resultsOut, results, os.Stderr); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Successfully wrote %d result(s) to %s\n", len(results), resultsOut)
	}
	return nil
}
