package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/basket/internal/logging"
	"github.com/five82/basket/internal/stockd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "stockd: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var (
		addr     string
		seedPath string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "stockd",
		Short: "Serve a development shop API for basket",
		Long: `Serve GET /products and GET /stock/:id from an in-memory inventory.

Without --seed a small demo catalog is served. PUT /stock/:id with
{"quantity": N} changes a stock level while the server runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), addr, seedPath, logLevel)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3333", "listen address")
	cmd.Flags().StringVar(&seedPath, "seed", "", "TOML seed file (optional)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	return cmd
}

func serve(ctx context.Context, addr, seedPath, logLevel string) error {
	logger, err := logging.New(logging.Options{Level: logLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	inv := stockd.DefaultInventory()
	if seedPath != "" {
		if inv, err = stockd.LoadSeed(seedPath); err != nil {
			return err
		}
	}

	e := stockd.NewServer(inv, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()
	logger.Info("stockd listening", zap.String("addr", addr), zap.Int("products", len(inv.Products())))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stockd stopped")
	return nil
}
