// Package pipeline orchestrates a ranking run: load the job and its applicants, run the
// ranking stages in order and persist the aggregate scores.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/metrics"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/textsim"
	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/jonathan/candidate-ranker/internal/validation"
)

// DefaultShortlistThreshold is the aggregate score a shortlisted candidate must reach
const DefaultShortlistThreshold = 0.4

// Stage names, in execution order
const (
	StageEducation  = "education"
	StageSkills     = "skills"
	StageExperience = "experience"
	StageAggregate  = "aggregate"
	StagePersist    = "persist"
)

const progressCategory = "ranking"

// ProgressEvent represents a progress update during a ranking run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Ranker runs the ranking pipeline. It holds only read-only collaborators, so one Ranker
// can serve concurrent runs.
type Ranker struct {
	Store      Store
	Embedder   embedding.Embedder
	Lemmatizer textsim.Lemmatizer
	// YearsPatterns overrides ranking.DefaultYearsPatterns when non-nil
	YearsPatterns []ranking.YearsPattern
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	OnProgress    ProgressCallback
}

// WithProgress returns a copy of r reporting to cb
func (r *Ranker) WithProgress(cb ProgressCallback) *Ranker {
	c := *r
	c.OnProgress = cb
	return &c
}

// RankCandidates ranks every applicant of a job and stores each aggregate score.
// An unknown job yields an unsuccessful result, not an error. Score write failures are
// reported in the result and do not stop the run.
func (r *Ranker) RankCandidates(ctx context.Context, jobID int64) (*types.RankResult, error) {
	runID := uuid.NewString()
	log := logger.WithRun(r.Logger, runID, jobID)

	if r.Store == nil {
		return nil, fmt.Errorf("ranker has no store")
	}

	job, err := r.Store.GetJobRequirement(ctx, jobID)
	if err != nil {
		r.Metrics.ObserveRun(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load job %d: %w", jobID, err)
	}
	if job == nil {
		log.Info("job not found")
		r.Metrics.ObserveRun(metrics.OutcomeJobNotFound)
		return &types.RankResult{
			Success:          false,
			Message:          types.MessageJobNotFound,
			RunID:            runID,
			RankedCandidates: []types.ScoredCandidate{},
		}, nil
	}

	candidates, err := r.Store.GetCandidatesAppliedTo(ctx, jobID)
	if err != nil {
		r.Metrics.ObserveRun(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load applicants of job %d: %w", jobID, err)
	}

	result, err := r.run(ctx, log, runID, job, candidates)
	if err != nil {
		r.Metrics.ObserveRun(metrics.OutcomeError)
		return nil, err
	}

	if len(result.RankedCandidates) == 0 {
		r.Metrics.ObserveRun(metrics.OutcomeEmpty)
		return result, nil
	}

	result.FailedWrites = r.persist(ctx, log, runID, job.JobID, result.RankedCandidates)
	r.Metrics.ObserveRun(metrics.OutcomeSuccess)
	log.Info("ranking complete",
		zap.Int("ranked", result.TotalCandidates),
		zap.Int("failed_writes", len(result.FailedWrites)),
	)
	return result, nil
}

// Score ranks the given candidates against job without loading or storing anything
func (r *Ranker) Score(ctx context.Context, job *types.JobRequirement, candidates []types.CandidateRecord) (*types.RankResult, error) {
	if err := validation.ValidateJob(job); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	return r.run(ctx, logger.WithRun(r.Logger, runID, job.JobID), runID, job, candidates)
}

// GetShortlisted refreshes the ranking of a job and returns the ranked candidates whose
// aggregate score is at least threshold. An unknown job or an empty pool yields an
// empty slice.
func (r *Ranker) GetShortlisted(ctx context.Context, jobID int64, threshold float64) ([]types.ScoredCandidate, error) {
	result, err := r.RankCandidates(ctx, jobID)
	if err != nil {
		return nil, err
	}

	shortlisted := []types.ScoredCandidate{}
	if !result.Success {
		return shortlisted, nil
	}
	for _, c := range result.RankedCandidates {
		if c.AggregateScore >= threshold {
			shortlisted = append(shortlisted, c)
		}
	}
	return shortlisted, nil
}

// run sanitizes the pool and executes the stages in order
func (r *Ranker) run(ctx context.Context, log *zap.Logger, runID string, job *types.JobRequirement, candidates []types.CandidateRecord) (*types.RankResult, error) {
	clean, issues := validation.SanitizeCandidates(candidates)
	for _, issue := range issues {
		log.Warn("malformed candidate entry",
			zap.Int64(logger.FieldCandidateID, issue.CandidateID),
			zap.String("field", issue.Field),
			zap.String("issue", issue.Message),
		)
	}

	if len(clean) == 0 {
		log.Info("no candidates to rank", zap.Int("loaded", len(candidates)))
		return &types.RankResult{
			Success:          true,
			Message:          types.MessageNoCandidates,
			RunID:            runID,
			RankedCandidates: []types.ScoredCandidate{},
			TotalCandidates:  0,
		}, nil
	}

	var steps []types.StageStat

	// Education
	start := time.Now()
	admitted := clean
	if job.HasEducationRequirement() {
		admitted = ranking.FilterByEducation(clean, job.EducationQualification)
		steps = append(steps, r.finishStage(log, runID, StageEducation, len(clean), len(admitted), false, start))
	} else {
		steps = append(steps, r.finishStage(log, runID, StageEducation, len(clean), len(clean), true, start))
	}

	// Skills
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageSkills, Cause: err}
	}
	start = time.Now()
	skillScored := ranking.ScoreSkills(admitted, job.SkillsRequired, r.Lemmatizer)
	steps = append(steps, r.finishStage(log, runID, StageSkills, len(admitted), len(skillScored), false, start))

	// Experience
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageExperience, Cause: err}
	}
	start = time.Now()
	experienceScored, err := ranking.ScoreExperience(ctx, skillScored, job.Description, r.Embedder, r.YearsPatterns)
	if err != nil {
		log.Error("experience scoring failed", zap.Error(err))
		return nil, &StageError{Stage: StageExperience, Cause: err}
	}
	steps = append(steps, r.finishStage(log, runID, StageExperience, len(skillScored), len(experienceScored), false, start))

	// Aggregate
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageAggregate, Cause: err}
	}
	start = time.Now()
	ranked := ranking.Aggregate(experienceScored)
	steps = append(steps, r.finishStage(log, runID, StageAggregate, len(experienceScored), len(ranked), false, start))

	return &types.RankResult{
		Success:          true,
		RunID:            runID,
		Job:              job,
		RankedCandidates: ranked,
		TotalCandidates:  len(ranked),
		Steps:            steps,
	}, nil
}

// finishStage logs, measures and reports one completed stage
func (r *Ranker) finishStage(log *zap.Logger, runID, name string, initial, left int, skipped bool, start time.Time) types.StageStat {
	stat := types.StageStat{
		Name:    name,
		Initial: initial,
		Dropped: initial - left,
		Left:    left,
		Skipped: skipped,
	}
	elapsed := time.Since(start)

	log.Info("stage complete",
		zap.String(logger.FieldStage, name),
		zap.Int("initial", stat.Initial),
		zap.Int("dropped", stat.Dropped),
		zap.Int("left", stat.Left),
		zap.Bool("skipped", skipped),
		zap.Duration("elapsed", elapsed),
	)
	r.Metrics.ObserveStage(name, elapsed, left)

	message := fmt.Sprintf("%s: %d of %d candidates left", name, left, initial)
	if skipped {
		message = fmt.Sprintf("%s: skipped, %d candidates", name, initial)
	}
	r.emit(runID, name, message, stat)
	return stat
}

// persist writes scores one by one in ranked order and collects the failures
func (r *Ranker) persist(ctx context.Context, log *zap.Logger, runID string, jobID int64, ranked []types.ScoredCandidate) []types.WriteFailure {
	var failures []types.WriteFailure
	for _, c := range ranked {
		err := r.Store.RecordCompatibilityScore(ctx, jobID, c.CandidateID, c.AggregateScore)
		if err == nil {
			continue
		}

		level := zap.ErrorLevel
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			level = zap.WarnLevel
		}
		log.Check(level, "failed to store compatibility score").Write(
			zap.Int64(logger.FieldCandidateID, c.CandidateID),
			zap.Float64("score", c.AggregateScore),
			zap.Error(err),
		)
		r.Metrics.ObserveWriteFailure()
		failures = append(failures, types.WriteFailure{CandidateID: c.CandidateID, Error: err.Error()})
	}

	r.emit(runID, StagePersist, fmt.Sprintf("stored %d of %d scores", len(ranked)-len(failures), len(ranked)), nil)
	return failures
}

// emit calls the progress callback if configured
func (r *Ranker) emit(runID, step, message string, content any) {
	if r.OnProgress != nil {
		r.OnProgress(ProgressEvent{
			Step:     step,
			Category: progressCategory,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}
