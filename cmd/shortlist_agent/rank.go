package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/schemas"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the applicants of a job and store their scores",
	Long:  "Loads a job and its applicants from the configured store, runs the education, skills, experience and aggregate stages, writes each compatibility score back and prints the RankResult JSON.",
	RunE:  runRank,
}

// rankOptions are the inputs of the rank command
type rankOptions struct {
	JobID   int64
	Output  string
	Verbose bool
}

var rankOpts rankOptions

func init() {
	rankCmd.Flags().Int64VarP(&rankOpts.JobID, "job-id", "j", 0, "ID of the job to rank (required)")
	rankCmd.Flags().StringVarP(&rankOpts.Output, "out", "o", "", "Path to output RankResult JSON file (default stdout)")
	rankCmd.Flags().BoolVarP(&rankOpts.Verbose, "verbose", "v", false, "Print stage progress and a summary to stderr")

	if err := rankCmd.MarkFlagRequired("job-id"); err != nil {
		panic(fmt.Sprintf("failed to mark job-id flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return doRank(cmd.Context(), a, rankOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func doRank(ctx context.Context, a *app, opts rankOptions, stdout, stderr io.Writer) error {
	if opts.JobID <= 0 {
		return fmt.Errorf("--job-id must be a positive integer")
	}

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	ranker, closeRanker, err := a.newRanker(ctx, st)
	if err != nil {
		return err
	}
	defer closeRanker()

	if opts.Verbose {
		ranker.OnProgress = progressPrinter(stderr)
	}

	result, err := ranker.RankCandidates(ctx, opts.JobID)
	if err != nil {
		return fmt.Errorf("failed to rank job %d: %w", opts.JobID, err)
	}

	if opts.Verbose {
		p := observability.NewPrinter(stderr)
		p.PrintJob(result.Job)
		p.PrintStages(result.Steps)
		p.PrintRankResult(result)
	}

	if err := writeJSON(stdout, opts.Output, result, schemas.RankResultSchema, a.logger); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%s: %d", result.Message, opts.JobID)
	}
	return nil
}
