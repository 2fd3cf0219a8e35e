package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "List the candidates of a job at or above the shortlist threshold",
	Long:  "Re-ranks a job and lists the ranked candidates whose aggregate score reaches the threshold. With --stored, lists the previously stored scores without ranking.",
	RunE:  runShortlist,
}

// shortlistOptions are the inputs of the shortlist command
type shortlistOptions struct {
	JobID     int64
	Threshold float64
	Stored    bool
	Format    string
}

var shortlistOpts shortlistOptions

func init() {
	shortlistCmd.Flags().Int64VarP(&shortlistOpts.JobID, "job-id", "j", 0, "ID of the job (required)")
	shortlistCmd.Flags().Float64VarP(&shortlistOpts.Threshold, "threshold", "t", -1, "Minimum aggregate score (default ranking.shortlist_threshold)")
	shortlistCmd.Flags().BoolVar(&shortlistOpts.Stored, "stored", false, "List stored scores instead of re-ranking")
	shortlistCmd.Flags().StringVarP(&shortlistOpts.Format, "format", "f", "text", "Output format: text or json")

	if err := shortlistCmd.MarkFlagRequired("job-id"); err != nil {
		panic(fmt.Sprintf("failed to mark job-id flag as required: %v", err))
	}

	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return doShortlist(cmd.Context(), a, shortlistOpts, cmd.OutOrStdout())
}

func doShortlist(ctx context.Context, a *app, opts shortlistOptions, stdout io.Writer) error {
	if opts.JobID <= 0 {
		return fmt.Errorf("--job-id must be a positive integer")
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("unknown format %q, expected text or json", opts.Format)
	}

	threshold := opts.Threshold
	if threshold < 0 {
		threshold = a.cfg.Ranking.ShortlistThreshold
	}
	if threshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1")
	}

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	var entries []types.ShortlistEntry
	if opts.Stored {
		entries, err = st.ListShortlisted(ctx, opts.JobID, threshold)
		if err != nil {
			return err
		}
	} else {
		ranker, closeRanker, err := a.newRanker(ctx, st)
		if err != nil {
			return err
		}
		defer closeRanker()

		candidates, err := ranker.GetShortlisted(ctx, opts.JobID, threshold)
		if err != nil {
			return fmt.Errorf("failed to shortlist job %d: %w", opts.JobID, err)
		}
		entries = toEntries(candidates)
	}
	if entries == nil {
		entries = []types.ShortlistEntry{}
	}

	if opts.Format == "json" {
		return writeJSON(stdout, "", entries, "", a.logger)
	}
	observability.NewPrinter(stdout).PrintShortlist(entries, threshold)
	return nil
}

// toEntries converts freshly ranked candidates to shortlist entries
func toEntries(candidates []types.ScoredCandidate) []types.ShortlistEntry {
	entries := make([]types.ShortlistEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, types.ShortlistEntry{
			CandidateID:        c.CandidateID,
			FullName:           c.FullName,
			Email:              c.Email,
			CompatibilityScore: c.AggregateScore,
			Shortlisted:        true,
		})
	}
	return entries
}
