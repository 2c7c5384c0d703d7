package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/logging"
	"github.com/solstice035/health-analytics/internal/workers"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort       int
	refreshInterval time.Duration
	noBrowser       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and refresh its artifacts in the background",
	Long: `Serve starts a local HTTP server for the dashboard directory and keeps
the JSON artifacts fresh with a background refresh worker. The browser
opens to the dashboard unless --no-browser is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)
		workers.LogExportStats(cfg.ExportDir)
		return runServe(cfg.DashboardDir, gen)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "HTTP port for the dashboard")
	serveCmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 15*time.Minute, "interval between artifact refreshes")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the dashboard in a browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(dashboardDir string, gen *dashboard.Generator) error {
	log := logging.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	g, gCtx := errgroup.WithContext(ctx)

	refresher := workers.NewArtifactRefresher(gen, refreshInterval, days)
	g.Go(func() error {
		refresher.Run(gCtx)
		return nil
	})

	addr := fmt.Sprintf(":%d", servePort)
	url := fmt.Sprintf("http://localhost%s", addr)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: http.FileServer(http.Dir(dashboardDir)),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Str("url", url).Str("dir", dashboardDir).Msg("dashboard server running")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	if !noBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Warn().Err(err).Msg("failed to open browser")
		}
	}

	var serverErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down dashboard server")
		serverErr = httpServer.Shutdown(context.Background())
	case err := <-errChan:
		serverErr = err
		cancel()
	}

	log.Info().Msg("waiting for workers to shut down")
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("worker error during shutdown")
	}
	return serverErr
}
