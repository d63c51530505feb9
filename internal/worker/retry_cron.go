package worker

// retry_cron.go
// Background goroutine that periodically redrives dead-lettered receipt
// jobs back onto QueueReceipt. Uses the circuit breaker to avoid hammering
// a backend that is still down.

import (
	"context"
	"encoding/json"
	"time"

	"tokopos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 60 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every minute
// and redrives a batch of DLQ receipt jobs while the circuit breaker is not
// open. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				redriveReceipts(ctx, cfg)
			}
		}
	}()
}

func redriveReceipts(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed backend
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueReceipt
	redriven := 0

	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			break // empty queue or transient redis error
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: invalid DLQ entry, dropping")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-encode job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, QueueReceipt, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue job")
			continue
		}
		redriven++
	}

	if redriven > 0 {
		log.Info().Int("count", redriven).Msg("retry_cron: redrove DLQ receipt jobs")
	}
}
