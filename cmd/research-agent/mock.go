// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/mockserver"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve canned research results for local development",
	Long: `Mock-server runs a stand-in research service. Every POST with a
non-empty topic receives the same demonstration report, with the topic
echoed back. Point service.url at http://<addr><path> to use it.`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	mockServerCmd.Flags().String("addr", "localhost:8000", "listen address")
	mockServerCmd.Flags().String("path", mockserver.DefaultPath, "research endpoint path")
	mockServerCmd.Flags().Duration("delay", 0, "simulated research latency")
	rootCmd.AddCommand(mockServerCmd)
}

func runMockServer(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	path, _ := cmd.Flags().GetString("path")
	delay, _ := cmd.Flags().GetDuration("delay")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mockserver.Handler(mockserver.Options{Path: path, Delay: delay, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("mock research service listening", zap.String("addr", addr), zap.String("path", path))
	fmt.Fprintf(os.Stderr, "Mock research service at http://%s%s\n", addr, path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
