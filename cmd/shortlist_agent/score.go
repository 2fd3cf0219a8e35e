package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank a job and applicants read from a JSON file",
	Long:  "Ranks the job and candidates of a ScoreInput JSON file without touching any store. With --offline no embedding provider is called and experience similarity is 0 for every candidate.",
	RunE:  runScore,
}

// scoreInput is the document read by the score and migrate --seed commands
type scoreInput struct {
	Job        types.JobRequirement    `json:"job"`
	Candidates []types.CandidateRecord `json:"candidates"`
}

// scoreOptions are the inputs of the score command
type scoreOptions struct {
	Input   string
	Output  string
	Offline bool
	Verbose bool
}

var scoreOpts scoreOptions

func init() {
	scoreCmd.Flags().StringVarP(&scoreOpts.Input, "input", "i", "", "Path to input ScoreInput JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreOpts.Output, "out", "o", "", "Path to output RankResult JSON file (default stdout)")
	scoreCmd.Flags().BoolVar(&scoreOpts.Offline, "offline", false, "Skip the embedding provider")
	scoreCmd.Flags().BoolVarP(&scoreOpts.Verbose, "verbose", "v", false, "Print a summary to stderr")

	if err := scoreCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return doScore(cmd.Context(), a, scoreOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func doScore(ctx context.Context, a *app, opts scoreOptions, stdout, stderr io.Writer) error {
	input, err := readScoreInput(opts.Input, a.logger)
	if err != nil {
		return err
	}

	var ranker *pipeline.Ranker
	if opts.Offline {
		ranker = a.rankerWith(nil, &embedding.Static{})
	} else {
		var closeRanker func()
		ranker, closeRanker, err = a.newRanker(ctx, nil)
		if err != nil {
			return err
		}
		defer closeRanker()
	}

	result, err := ranker.Score(ctx, &input.Job, input.Candidates)
	if err != nil {
		return fmt.Errorf("failed to score %s: %w", opts.Input, err)
	}

	if opts.Verbose {
		p := observability.NewPrinter(stderr)
		p.PrintJob(result.Job)
		p.PrintStages(result.Steps)
		p.PrintRankResult(result)
	}

	return writeJSON(stdout, opts.Output, result, schemas.RankResultSchema, a.logger)
}

// readScoreInput loads a ScoreInput file; when the schema is available the file must match it
func readScoreInput(path string, log *zap.Logger) (*scoreInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.ScoreInputSchema); schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, content); err != nil {
			return nil, fmt.Errorf("input file %s is invalid: %w", path, err)
		}
	} else {
		log.Debug("schema not found, input not validated", zap.String("schema", schemas.ScoreInputSchema))
	}

	var input scoreInput
	if err := json.Unmarshal(content, &input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input JSON: %w", err)
	}
	return &input, nil
}
