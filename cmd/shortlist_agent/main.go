// Package main provides the shortlist_agent CLI, which ranks the applicants of a job and
// serves the ranking over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/config"
)

var (
	configPath string
	// v collects defaults, the config file, the environment and bound flags
	v = config.New()
)

var rootCmd = &cobra.Command{
	Use:           "shortlist_agent",
	Short:         "Rank and shortlist job applicants",
	Long:          "shortlist_agent filters the applicants of a job by education, scores their skills and experience, and stores an aggregate compatibility score per application.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	mustBindFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	mustBindFlag("log.json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
