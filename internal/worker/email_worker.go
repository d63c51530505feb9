package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the stored PDF receipt to the
// customer via SMTP. Email delivery is a follow-on action on an
// already-generated document, so failures are reported but never retried
// into the commit path.

import (
	"context"
	"encoding/json"

	"tokopos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer   *infra.Mailer
	reporter ReceiptReporter
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer *infra.Mailer, reporter ReceiptReporter) *EmailWorker {
	return &EmailWorker{mailer: mailer, reporter: reporter}
}

// Process sends an email with the PDF receipt as attachment.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	if err := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		w.reporter.EmailFailed(payload.TransactionID, err)
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("transaction", payload.TransactionID).Msg("email_worker: receipt sent")
}
