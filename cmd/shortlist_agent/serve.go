package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/server"
	"github.com/jonathan/candidate-ranker/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the ranking pipeline, stored scores and Prometheus metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	mustBindFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
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

	srv, err := server.New(serverConfig(a), ranker)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig maps the loaded configuration onto the server's
func serverConfig(a *app) server.Config {
	limits := a.cfg.Server.RateLimit
	return server.Config{
		Port:               a.cfg.Server.Port,
		ShortlistThreshold: a.cfg.Ranking.ShortlistThreshold,
		RateLimit: ratelimit.Config{
			Enabled:          limits.Enabled,
			DefaultPerMinute: limits.DefaultPerMinute,
			Burst:            limits.Burst,
			IdleTimeout:      limits.IdleTimeout,
			Endpoints:        ratelimit.RankEndpoints(limits.RankPerMinute, limits.Burst),
		},
		Gatherer: a.registry,
		Logger:   a.logger,
	}
}
