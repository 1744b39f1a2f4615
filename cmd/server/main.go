package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/config"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/infra"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/router"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// NewDatabase runs the schema migrations itself
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async alerting: movements enqueue low-stock jobs, the pool delivers
	// them by mail behind a circuit breaker, and a periodic sweep catches
	// anything the per-movement trigger missed.
	mailer := infra.NewMailer(cfg)
	mailerCB := infra.NewMailerBreaker()
	dispatcher := worker.NewDispatcher(rdb)

	handlers := &worker.Handlers{
		LowStock: worker.NewLowStockWorker(mailer, mailerCB, cfg.AlertEmail),
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	productRepo := repository.NewProductRepository(db)
	worker.StartLowStockCron(ctx, worker.LowStockCronConfig{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		CB:          mailerCB,
		Interval:    time.Duration(cfg.LowStockScanMinutes) * time.Minute,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("alwaseet backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
