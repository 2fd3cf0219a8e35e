// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintJob outputs the requirement a run scores against.
func (p *Printer) PrintJob(job *types.JobRequirement) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:       #%d %s\n", job.JobID, job.JobRole))
	if job.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("Company:   %s\n", job.CompanyName))
	}

	skills := ranking.ParseRequiredSkills(job.SkillsRequired)
	if len(skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
	}

	education := job.EducationQualification
	if education == "" {
		education = "(any)"
	}
	sb.WriteString(fmt.Sprintf("Education: %s", education))

	p.printBox("JOB REQUIREMENT", sb.String())
}

// PrintStages outputs how many candidates each stage kept.
func (p *Printer) PrintStages(steps []types.StageStat) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	for i, step := range steps {
		if step.Skipped {
			sb.WriteString(fmt.Sprintf("%-11s skipped (%d candidates)", step.Name, step.Initial))
		} else {
			sb.WriteString(fmt.Sprintf("%-11s %3d in  %3d dropped  %3d left", step.Name, step.Initial, step.Dropped, step.Left))
		}
		if i < len(steps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PIPELINE STAGES", sb.String())
}

// PrintRankResult outputs the top ranked candidates with their scores and a summary line.
func (p *Printer) PrintRankResult(result *types.RankResult) {
	if result == nil {
		return
	}
	if !result.Success {
		p.printBox("RANKING FAILED", result.Message)
		return
	}
	if len(result.RankedCandidates) == 0 {
		message := result.Message
		if message == "" {
			message = "No candidate passed the education filter"
		}
		p.printBox("RANKED CANDIDATES", message)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", result.TotalCandidates))

	count := min(len(result.RankedCandidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := result.RankedCandidates[i]
		name := c.FullName
		if name == "" {
			name = fmt.Sprintf("candidate %d", c.CandidateID)
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (skills %.2f, experience %.2f)\n", c.AggregateScore, c.SkillScore, c.ExperienceScore))
		sb.WriteString(fmt.Sprintf("    %s\n", ranking.Summarize(&c)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(result.RankedCandidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more\n", len(result.RankedCandidates)-maxItemsToShow))
	}

	if len(result.FailedWrites) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ %d scores could not be stored\n", len(result.FailedWrites)))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintShortlist outputs persisted shortlist entries.
func (p *Printer) PrintShortlist(entries []types.ShortlistEntry, threshold float64) {
	title := fmt.Sprintf("SHORTLIST (score >= %.2f)", threshold)
	if len(entries) == 0 {
		p.printBox(title, "No candidates reached the threshold")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%.2f  #%d %s", e.CompatibilityScore, e.CandidateID, e.FullName))
		if e.Email != "" {
			sb.WriteString(fmt.Sprintf(" <%s>", e.Email))
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(title, sb.String())
}
