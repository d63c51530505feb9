package worker

// receipt_worker.go
// Processes receipt pipeline jobs from QueueReceipt:
//   1. Render the committed transaction into a PDF (deterministic layout)
//   2. Store the document locally — this copy is the receipt of record
//   3. In remote mode, upload keyed by the durable reference id, with
//      exponential backoff (max 3 attempts) and DLQ on exhaustion
//   4. Optionally enqueue a customer email with the stored PDF
//
// Every outcome is reported through the ReceiptReporter so a receipt
// failure stays visible without ever failing the commit it belongs to.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/model"
	"tokopos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadAttempts = 3
	uploadBackoffBase = 2 * time.Second
)

// ErrMissingReferenceID is reported when a remote-mode upload is requested
// for a transaction the backend never issued a reference id for. The display
// code alone cannot locate a transaction server-side, so guessing is worse
// than failing fast.
var ErrMissingReferenceID = errors.New("transaction has no durable reference id, cannot upload receipt")

// ReceiptReporter is the user-visible outcome channel for the pipeline.
type ReceiptReporter interface {
	ReceiptStored(txID, path string)
	ReceiptUploaded(txID, url string)
	ReceiptFailed(txID string, err error)
	EmailFailed(txID string, err error)
}

// ReceiptWorker processes receipt jobs from QueueReceipt.
type ReceiptWorker struct {
	client      *infra.BackendClient
	selector    repository.Selector
	layout      infra.ReceiptLayout
	storagePath string
	dispatcher  *Dispatcher
	reporter    ReceiptReporter
	rdb         *redis.Client
}

// NewReceiptWorker wires all dependencies for the receipt pipeline.
func NewReceiptWorker(
	client *infra.BackendClient,
	selector repository.Selector,
	layout infra.ReceiptLayout,
	storagePath string,
	dispatcher *Dispatcher,
	reporter ReceiptReporter,
	rdb *redis.Client,
) *ReceiptWorker {
	return &ReceiptWorker{
		client:      client,
		selector:    selector,
		layout:      layout,
		storagePath: storagePath,
		dispatcher:  dispatcher,
		reporter:    reporter,
		rdb:         rdb,
	}
}

// Process handles a single receipt job.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	tx := payload.Transaction

	filename, data, err := infra.GenerateReceiptPDF(&tx, w.layout)
	if err != nil {
		w.reporter.ReceiptFailed(tx.ID, err)
		return
	}

	if err := os.MkdirAll(w.storagePath, 0755); err != nil {
		w.reporter.ReceiptFailed(tx.ID, err)
		return
	}
	path := filepath.Join(w.storagePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		w.reporter.ReceiptFailed(tx.ID, err)
		return
	}
	w.reporter.ReceiptStored(tx.ID, path)

	if w.selector() {
		w.upload(ctx, &tx, filename, data, raw)
	}

	if payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			TransactionID: tx.ID,
			ToEmail:       payload.CustomerEmail,
			Subject:       "Your receipt " + tx.ID,
			Body:          "Thank you for your purchase. Your receipt is attached.",
			PDFPath:       path,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			w.reporter.EmailFailed(tx.ID, err)
		}
	}
}

// upload pushes the rendered document to the backend. Upload failure never
// invalidates the stored local copy — it stays the receipt of record for
// the session.
func (w *ReceiptWorker) upload(ctx context.Context, tx *model.Transaction, filename string, data []byte, raw json.RawMessage) {
	if tx.ReferenceID == nil {
		w.reporter.ReceiptFailed(tx.ID, ErrMissingReferenceID)
		return
	}

	var lastErr error
	for attempt := 0; attempt < maxUploadAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s
			time.Sleep(uploadBackoffBase << (attempt - 1))
		}
		result, err := w.client.UploadReceipt(ctx, *tx.ReferenceID, filename, data)
		if err == nil {
			w.reporter.ReceiptUploaded(tx.ID, result.URL)
			return
		}
		lastErr = err
		log.Warn().Err(err).Str("transaction", tx.ID).Int("attempt", attempt+1).Msg("receipt_worker: upload failed")
	}

	w.reporter.ReceiptFailed(tx.ID, lastErr)
	if w.rdb != nil {
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, lastErr.Error(), maxUploadAttempts)
	}
}
