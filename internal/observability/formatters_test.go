package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintJob(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJob(&types.JobRequirement{
		JobID:          12,
		JobRole:        "Data Engineer",
		CompanyName:    "Acme Corp",
		SkillsRequired: "Python, SQL, Airflow, Spark, dbt, Kafka",
	})
	output := buf.String()

	assert.Contains(t, output, "JOB REQUIREMENT")
	assert.Contains(t, output, "#12 Data Engineer")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "• Python")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Education: (any)")
}

func TestPrintJob_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJob(nil)
	assert.Empty(t, buf.String())
}

func TestPrintStages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStages([]types.StageStat{
		{Name: "education", Initial: 4, Dropped: 1, Left: 3},
		{Name: "skills", Initial: 3, Left: 3},
	})
	output := buf.String()

	assert.Contains(t, output, "PIPELINE STAGES")
	assert.Contains(t, output, "education     4 in    1 dropped    3 left")

	buf.Reset()
	p.PrintStages([]types.StageStat{{Name: "education", Initial: 4, Left: 4, Skipped: true}})
	assert.Contains(t, buf.String(), "skipped (4 candidates)")
}

func TestPrintRankResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.RankResult{
		Success:         true,
		TotalCandidates: 2,
		RankedCandidates: []types.ScoredCandidate{
			{
				CandidateRecord: types.CandidateRecord{CandidateID: 1, FullName: "Ada Park"},
				SkillScore:      0.96,
				ExperienceScore: 1.0,
				AggregateScore:  0.98,
				SkillMatchDetails: types.SkillMatchDetail{
					TotalRequired: 1,
					MatchedCount:  1,
					Coverage:      1,
					MatchedSkills: []types.SkillMatch{{Required: "Go", Matched: "Golang"}},
				},
			},
			{CandidateRecord: types.CandidateRecord{CandidateID: 3}, AggregateScore: 0.35},
		},
		FailedWrites: []types.WriteFailure{{CandidateID: 3, Error: "no application"}},
	}

	p.PrintRankResult(result)
	output := buf.String()

	assert.Contains(t, output, "RANKED CANDIDATES")
	assert.Contains(t, output, "#1  Ada Park")
	assert.Contains(t, output, "Score: 0.98 (skills 0.96, experience 1.00)")
	assert.Contains(t, output, "Strong skill match 1/1 (Golang)")
	assert.Contains(t, output, "#2  candidate 3")
	assert.Contains(t, output, "1 scores could not be stored")
}

func TestPrintRankResult_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		result *types.RankResult
		want   string
	}{
		{name: "job not found", result: &types.RankResult{Success: false, Message: types.MessageJobNotFound}, want: "RANKING FAILED"},
		{name: "empty pool", result: &types.RankResult{Success: true, Message: types.MessageNoCandidates}, want: types.MessageNoCandidates},
		{name: "all filtered", result: &types.RankResult{Success: true}, want: "No candidate passed the education filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintRankResult(tt.result)
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintRankResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintShortlist(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintShortlist([]types.ShortlistEntry{
		{CandidateID: 1, FullName: "Ada Park", Email: "ada@example.com", CompatibilityScore: 0.98},
	}, 0.4)
	output := buf.String()

	assert.Contains(t, output, "SHORTLIST (score >= 0.40)")
	assert.Contains(t, output, "0.98  #1 Ada Park <ada@example.com>")

	buf.Reset()
	p.PrintShortlist(nil, 0.4)
	assert.Contains(t, buf.String(), "No candidates reached the threshold")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJob(&types.JobRequirement{
		JobID:       1,
		JobRole:     "Senior Staff Principal Distinguished Engineer Level 99 Platform",
		CompanyName: "A Very Long Company Name That Should Be Truncated To Fit",
	})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ééé...", truncate("éééééééééé", 6))
}
