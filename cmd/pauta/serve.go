package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pautahq/pauta/internal/httpapi"
	"github.com/pautahq/pauta/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning server (HTTP API + MCP, or MCP over stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.registry.StartJanitor(ctx)

		handler := mcp.NewHandler(a.planner, a.registry, a.facts, a.workstreams, a.proposals, a.logger)
		mcpServer := mcp.NewServer(mcp.Config{Handler: handler, Logger: a.logger})

		if a.cfg.Transport.Mode == "stdio" {
			a.logger.Info("starting stdio transport")
			if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio transport: %w", err)
			}
			return nil
		}

		api := httpapi.NewServer(a.planner, a.registry, a.facts, a.workstreams, a.proposals, a.logger)
		mux := http.NewServeMux()
		mux.Handle("/", api.Handler())
		mux.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(func(r *http.Request) *sdkmcp.Server {
			return mcpServer
		}, &sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		}))

		addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("starting http server", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
