package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Notification kinds.
const (
	NotifyReceiptStored   = "receipt_stored"
	NotifyReceiptUploaded = "receipt_uploaded"
	NotifyReceiptFailed   = "receipt_failed"
	NotifyEmailFailed     = "receipt_email_failed"
)

// Notification is one user-visible receipt event.
type Notification struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notifier is the user-visible channel for receipt outcomes. A receipt
// failure never fails or rolls back a commit, but it must never be silently
// swallowed either: the terminal UI polls these events so "the sale
// happened but the receipt had a problem" stays distinguishable from "the
// sale did not happen".
type Notifier struct {
	mu     sync.Mutex
	events []Notification
	cap    int
}

func NewNotifier() *Notifier {
	return &Notifier{cap: 100}
}

func (n *Notifier) push(kind, txID, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Notification{
		Kind:          kind,
		TransactionID: txID,
		Message:       msg,
		CreatedAt:     time.Now(),
	})
	if len(n.events) > n.cap {
		n.events = n.events[len(n.events)-n.cap:]
	}
}

// ReceiptStored records that the local document was rendered and saved.
func (n *Notifier) ReceiptStored(txID, path string) {
	log.Info().Str("transaction", txID).Str("path", path).Msg("receipt stored")
	n.push(NotifyReceiptStored, txID, "receipt saved to "+path)
}

// ReceiptUploaded records a successful backend upload.
func (n *Notifier) ReceiptUploaded(txID, url string) {
	log.Info().Str("transaction", txID).Str("url", url).Msg("receipt uploaded")
	n.push(NotifyReceiptUploaded, txID, "receipt uploaded")
}

// ReceiptFailed records a receipt pipeline failure.
func (n *Notifier) ReceiptFailed(txID string, err error) {
	log.Error().Str("transaction", txID).Err(err).Msg("receipt pipeline failed")
	n.push(NotifyReceiptFailed, txID, err.Error())
}

// EmailFailed records a failed receipt email.
func (n *Notifier) EmailFailed(txID string, err error) {
	log.Error().Str("transaction", txID).Err(err).Msg("receipt email failed")
	n.push(NotifyEmailFailed, txID, err.Error())
}

// List returns the recorded events, newest first.
func (n *Notifier) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.events))
	for i, e := range n.events {
		out[len(n.events)-1-i] = e
	}
	return out
}
