package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"jobmatch/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the websocket hub and the expiry sweeper",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := app.Bootstrap(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := cleanup(); err != nil {
					log.Warn("cleanup failed", zap.Error(err))
				}
			}()

			addr, err := app.ListenAddr(cfg.App.HTTPPort)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.Container.Hub.Run(gctx)
				return nil
			})
			g.Go(func() error {
				return a.Container.Sweeper.Run(gctx, cfg.Matching.SweepInterval)
			})
			g.Go(func() error {
				log.Info("http server listening", zap.String("addr", addr), zap.String("store", cfg.Store.Driver))
				return a.Fiber.Listen(addr)
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				log.Info("shutting down")
				return a.Fiber.ShutdownWithContext(sctx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
