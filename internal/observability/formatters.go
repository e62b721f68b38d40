// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// feedbackPreview is how much feedback text a result box shows
	feedbackPreview = 160
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequirements outputs the skills extracted from a job description.
func (p *Printer) PrintRequirements(req types.JobRequirements) {
	var sb strings.Builder

	if req.Fingerprint != "" {
		fp := req.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		sb.WriteString(fmt.Sprintf("Fingerprint: %s\n\n", fp))
	}

	writeList(&sb, "Must Have", req.MustHave)
	sb.WriteString("\n")
	writeList(&sb, "Good To Have", req.GoodToHave)

	p.printBox("JOB REQUIREMENTS", sb.String())
}

// PrintResult outputs a single evaluation result.
func (p *Printer) PrintResult(result types.EvaluationResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Resume:   %s\n", result.ResumeName))
	sb.WriteString(fmt.Sprintf("Score:    %.2f / 100\n", result.TotalScore))
	sb.WriteString(fmt.Sprintf("Verdict:  %s\n", result.Verdict))
	if !result.Failed() {
		sb.WriteString(fmt.Sprintf("Hard:     %.2f   Semantic: %.2f\n", result.Components.Hard, result.Components.Semantic))
	}
	sb.WriteString(fmt.Sprintf("Time:     %.2fs\n", result.ProcessingTime))
	sb.WriteString("\n")

	writeList(&sb, "Missing Skills", result.MissingSkills)

	if result.Feedback != "" {
		sb.WriteString("\nFeedback:\n")
		feedback := []rune(result.Feedback)
		if len(feedback) > feedbackPreview {
			feedback = append(feedback[:feedbackPreview], []rune("...")...)
		}
		for _, line := range wrap(string(feedback), boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox("EVALUATION RESULT", sb.String())
}

// PrintBatchStats outputs the summary of a batch evaluation.
func (p *Printer) PrintBatchStats(stats types.BatchStats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Resumes:    %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d\n", stats.Successful))
	sb.WriteString(fmt.Sprintf("Errors:     %d\n", stats.Errors))
	sb.WriteString(fmt.Sprintf("Avg Score:  %.2f\n", stats.AverageScore))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", stats.Duration.Round(time.Millisecond)))

	if len(stats.Verdicts) > 0 {
		sb.WriteString("\nVerdicts:\n")
		verdicts := make([]string, 0, len(stats.Verdicts))
		for v := range stats.Verdicts {
			verdicts = append(verdicts, string(v))
		}
		sort.Strings(verdicts)
		for _, v := range verdicts {
			sb.WriteString(fmt.Sprintf("  %-8s %d\n", v, stats.Verdicts[types.Verdict(v)]))
		}
	}

	p.printBox("BATCH SUMMARY", sb.String())
}

// PrintRanking outputs one line per result in the given order.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRanking(results []types.EvaluationResult) {
	for i, r := range results {
		fmt.Fprintf(p.out, "%3d. %-30s %6.2f  %s\n", i+1, r.ResumeName, r.TotalScore, r.Verdict)
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		sb.WriteString(fmt.Sprintf("%s: none\n", title))
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%d):\n", title, len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func wrap(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		if line == "" {
			line = word
			continue
		}
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
