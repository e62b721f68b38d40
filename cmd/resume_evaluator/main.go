// Package main provides the entry point for the resume evaluator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_evaluator",
	Short: "Score resumes against a job description",
	Long: `Resume Evaluator scores resumes (PDF or plain text) against a job description.
Each resume receives a 0-100 score built from keyword matching and semantic overlap,
a High/Medium/Low verdict, the required skills it is missing and improvement feedback.`,
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootVerbose    bool
	rootLogJSON    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&rootLogJSON, "log-json", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
