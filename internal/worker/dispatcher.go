package worker

import (
	"context"
	"encoding/json"

	"tokopos/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReceiptJobPayload carries a committed transaction through the receipt
// pipeline. The whole transaction rides along so the worker needs no
// backend round trip to render.
type ReceiptJobPayload struct {
	Transaction   model.Transaction `json:"transaction"`
	CustomerEmail string            `json:"customer_email,omitempty"`
}

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	TransactionID string `json:"transaction_id"`
	ToEmail       string `json:"to_email"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	PDFPath       string `json:"pdf_path"`
}

// Dispatcher enqueues async jobs into Redis lists consumed by the worker
// pool. When no Redis is configured (a standalone terminal) jobs run on an
// in-process goroutine instead, so the commit path stays non-blocking either
// way.
type Dispatcher struct {
	rdb      *redis.Client
	handlers *WorkerHandlers
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Bind attaches the handler table used for in-process execution. Called
// once from the composition root after the workers are constructed.
func (d *Dispatcher) Bind(handlers *WorkerHandlers) {
	d.handlers = handlers
}

// EnqueueReceipt pushes a receipt pipeline job.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", payload)
}

// EnqueueEmail pushes a receipt email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if d.rdb == nil {
		if d.handlers == nil {
			log.Error().Str("type", jobType).Msg("dispatcher: no handlers bound, dropping job")
			return nil
		}
		// Detached from the request context: the commit must not wait for
		// (or be cancelled along with) the receipt pipeline.
		go d.handlers.process(context.Background(), queue, data)
		return nil
	}

	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
