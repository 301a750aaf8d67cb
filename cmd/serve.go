package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tunnelcheck/tunnelcheck/internal/config"
	"github.com/tunnelcheck/tunnelcheck/internal/echo"
	"github.com/tunnelcheck/tunnelcheck/internal/server"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Resolve(args, os.Stderr)

	logger := server.NewDefaultLogger()
	handler := echo.New(logger)
	srv := server.New(server.Config{Port: cfg.Port}, handler, logger)

	if err := srv.Listen(); err != nil {
		// StartupError carries the human-readable diagnostic, including the
		// port+1 suggestion when the port is taken
		return err
	}

	// Operator interrupt is the clean path to STOPPED
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nServer stopped by user")
		srv.Close()
	}()

	srv.PrintBanner()
	if err := srv.Serve(); err != nil {
		return err
	}

	stats := srv.Metrics().Snapshot()
	fmt.Printf("Requests served: %d (4xx: %d, 5xx: %d, avg latency: %v)\n",
		stats.RequestsTotal, stats.Errors4xx, stats.Errors5xx, stats.AverageLatency)
	return nil
}
