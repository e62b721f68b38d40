package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/observability"
	"github.com/jonathan/resume-evaluator/internal/skills"
	"github.com/spf13/cobra"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Show the skills extracted from a job description",
	Long: `Extract the must-have and good-to-have skills from a job description, as used for scoring.

With --vocabulary the reference skill lists are printed instead and no job description is read.`,
	RunE:  runExtractSkills,
}

var (
	extractJob        string
	extractJSON       bool
	extractVocabulary bool
)

func init() {
	extractSkillsCmd.Flags().StringVarP(&extractJob, "job", "j", "", "Path to job description text file")
	extractSkillsCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the requirements as JSON")
	extractSkillsCmd.Flags().BoolVar(&extractVocabulary, "vocabulary", false, "Print the technical and soft skill vocabularies")

	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(_ *cobra.Command, _ []string) error {
	if extractVocabulary {
		return writeVocabulary(os.Stdout, extractJSON)
	}
	if extractJob == "" {
		return errors.New(`required flag "job" not set`)
	}

	cfg, err := resolveConfig(func(c *config.Config) { c.Job = extractJob })
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

	result := skills.NewExtractor(cfg.JDMaxChars, log).Extract(jd)
	if result.Degraded {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: using default requirements: %s\n", result.Reason)
	}
	req := result.Requirements
	req.Fingerprint = skills.Fingerprint(jd)

	if extractJSON {
		data, err := json.MarshalIndent(req, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal requirements: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", data)
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintRequirements(req)
	return nil
}

// vocabulary is the JSON form of the reference skill lists
type vocabulary struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

func writeVocabulary(w io.Writer, asJSON bool) error {
	v := vocabulary{Technical: skills.TechnicalTerms(), Soft: skills.SoftTerms()}
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal vocabulary: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	_, err := fmt.Fprintf(w, "Technical (%d): %s\nSoft (%d): %s\n",
		len(v.Technical), strings.Join(v.Technical, ", "),
		len(v.Soft), strings.Join(v.Soft, ", "))
	return err
}
