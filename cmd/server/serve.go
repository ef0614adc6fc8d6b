package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devi-jewellers/rate-service/internal/application/service"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and background sync schedulers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, buildOptions{withJournal: true})
	if err != nil {
		return err
	}
	defer a.close()

	rateHandler := handler.NewRateHandler(a.rateService, a.syncService, a.liveCache(), a.logger)
	imageHandler := handler.NewImageHandler(a.imageService, a.logger)
	systemHandler := handler.NewSystemHandler(a.cfg, a.rates, a.goldRates, a.images, a.pool, a.journalReader(), a.logger)

	router := handler.NewRouter(rateHandler, imageHandler, systemHandler, a.logger)

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Server listening", map[string]interface{}{
			"addr": a.cfg.HTTPAddr,
		})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if interval := a.cfg.RESTSyncInterval(); interval > 0 {
		sched := service.NewScheduler(service.PipelineSync, interval, func(ctx context.Context) error {
			_, err := a.syncService.Sync(ctx)
			return err
		}, a.logger)
		g.Go(func() error {
			if err := sched.Start(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if interval := a.cfg.SyncInterval(); interval > 0 && a.hasRemote() {
		sched := service.NewScheduler(service.PipelineImport, interval, func(ctx context.Context) error {
			_, _, err := a.syncService.ImportFromRemote(ctx)
			return err
		}, a.logger)
		g.Go(func() error {
			if err := sched.Start(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
