package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/screen"
	"github.com/evolute-hq/invscreen/internal/server"
	"github.com/evolute-hq/invscreen/internal/webtext"
	"github.com/evolute-hq/invscreen/pkg/llm"
)

var servePort int

// buildScreening wires the screening components from config.
func buildScreening() (*screen.Screener, *webtext.Fetcher, *enrich.Enricher) {
	client := llm.NewClient(cfg.Anthropic.Key)
	fetcher := webtext.NewFetcher(cfg.Fetch)
	enricher := enrich.New(client, cfg.Anthropic)
	screener := screen.New(fetcher, enricher, cfg.Screen)
	return screener, fetcher, enricher
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screening HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		screener, fetcher, enricher := buildScreening()
		api := server.New(screener, fetcher, enricher)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.Router(cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
