package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/validation"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long:  "Applies the schema to the configured store. With --seed, also inserts the job and candidates of a ScoreInput JSON file and applies every candidate to the job.",
	RunE:  runMigrate,
}

var migrateSeed string

func init() {
	migrateCmd.Flags().StringVar(&migrateSeed, "seed", "", "Path to a ScoreInput JSON file to insert")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return doMigrate(cmd.Context(), a, migrateSeed, cmd.OutOrStdout())
}

func doMigrate(ctx context.Context, a *app, seedPath string, stdout io.Writer) error {
	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	a.logger.Info("schema applied", zap.String("driver", a.cfg.Database.Driver))

	if seedPath == "" {
		return nil
	}

	input, err := readScoreInput(seedPath, a.logger)
	if err != nil {
		return err
	}
	if err := validation.ValidateJob(&input.Job); err != nil {
		return err
	}

	jobID, err := st.CreateJob(ctx, &input.Job)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	for i := range input.Candidates {
		c := &input.Candidates[i]
		candidateID, err := st.CreateCandidate(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %d: %w", c.CandidateID, err)
		}
		if err := st.Apply(ctx, jobID, candidateID); err != nil {
			return fmt.Errorf("failed to apply candidate %d: %w", candidateID, err)
		}
	}

	a.logger.Info("seed data inserted", zap.Int64("job_id", jobID), zap.Int("candidates", len(input.Candidates)))
	_, err = fmt.Fprintf(stdout, "seeded job %d with %d candidates\n", jobID, len(input.Candidates))
	return err
}
