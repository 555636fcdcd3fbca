package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  POST /recommend            resume text in, ranked internships out
  POST /api/submit-profile   structured profile in, top matches out (alias: /profile)
  POST /extract              resume text or file upload in, extracted profile out
  GET  /health               liveness and configuration summary`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().StringSlice("sources", nil, "job boards to query (default: all)")
	serveCmd.Flags().String("fetch-mode", "", "page fetching: browser or http")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(serverConfig(a), a.service, a.extractor, a.logger)
	a.logger.Info("starting server",
		zap.Int("port", a.cfg.Port),
		zap.Strings("sources", a.service.Sources()),
		zap.String("fetch_mode", a.cfg.FetchMode),
	)
	return srv.Run(ctx)
}

func serverConfig(a *app) server.Config {
	return server.Config{
		Port:           a.cfg.Port,
		AllowedOrigins: a.cfg.AllowedOrigins,
		RateLimit:      a.cfg.RateLimit,
		RateLimitBurst: a.cfg.RateLimitBurst,
		JWT:            a.cfg.JWT,
		FetchMode:      a.cfg.FetchMode,
		SearchFallback: a.cfg.Google.Enabled(),
	}
}
