package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokopos/internal/config"
	"tokopos/internal/infra"
	"tokopos/internal/router"
	"tokopos/internal/service"
	"tokopos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	localDB, err := infra.OpenLocalDB(cfg.LocalDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local store")
	}
	defer localDB.Close()

	// Redis is optional: a standalone terminal runs the receipt pipeline on
	// in-process goroutines instead.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := infra.NewBackendClient(cfg.BackendURL, time.Duration(cfg.BackendTimeoutSecs)*time.Second)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	selector := cfg.RemoteEnabled
	mailer := infra.NewMailer(cfg)
	notifier := service.NewNotifier()

	layout := infra.ReceiptLayout{
		StoreName:      cfg.StoreName,
		StoreAddress:   cfg.StoreAddress,
		Footer:         cfg.ReceiptFooter,
		Policy:         cfg.ReceiptPolicy,
		MaxItemNameLen: cfg.MaxItemNameLen,
	}

	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	dispatcher := worker.NewDispatcher(redisClient)
	workerHandlers := &worker.WorkerHandlers{
		Receipt: worker.NewReceiptWorker(client, selector, layout, cfg.ReceiptStoragePath, dispatcher, notifier, redisClient),
		Email:   worker.NewEmailWorker(mailer, notifier),
	}
	dispatcher.Bind(workerHandlers)

	if redisClient != nil {
		worker.StartWorkerPool(ctx, redisClient, workerHandlers, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: redisClient, CB: cb})
	}

	r := router.New(router.Deps{
		Config:     cfg,
		LocalDB:    localDB,
		RDB:        redisClient,
		Client:     client,
		CB:         cb,
		Selector:   selector,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Layout:     layout,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("tokopos terminal listening on :%d", cfg.Port)
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
