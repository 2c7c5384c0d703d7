package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solstice035/health-analytics/internal/logging"
	"github.com/solstice035/health-analytics/internal/server"
	"github.com/spf13/cobra"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server for AI assistant access",
	Long: `MCP exposes the health data via the Model Context Protocol: tools for
summaries, scores, insights, records, per-day analysis, period
comparison, and workout statistics, plus resources for the generated
dashboard artifacts.

Runs over stdio by default. With --port it serves HTTP/SSE instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		gen := newGenerator(cfg)
		srv := server.New(gen, cfg.Goals, cfg.DataDir())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logging.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		}()

		if mcpPort > 0 {
			return runHTTPServer(ctx, srv.MCPServer(), mcpPort)
		}
		logging.Info("MCP server running via stdio")
		return srv.Run(ctx)
	},
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "MCP server port (0 for stdio mode)")
	rootCmd.AddCommand(mcpCmd)
}

// runHTTPServer runs the MCP server over HTTP/SSE
func runHTTPServer(ctx context.Context, mcpServer *mcp.Server, port int) error {
	log := logging.Logger

	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", addr).
			Str("endpoint", fmt.Sprintf("http://localhost%s", addr)).
			Msg("MCP server running via HTTP/SSE")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		return httpServer.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
