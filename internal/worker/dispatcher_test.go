package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures pipeline outcomes for assertion.
type recordingReporter struct {
	mu       sync.Mutex
	stored   []string
	uploaded []string
	failed   []string
	emails   []string
}

func (r *recordingReporter) ReceiptStored(txID, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, path)
}

func (r *recordingReporter) ReceiptUploaded(txID, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploaded = append(r.uploaded, txID)
}

func (r *recordingReporter) ReceiptFailed(txID string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, txID)
}

func (r *recordingReporter) EmailFailed(txID string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, txID)
}

func (r *recordingReporter) storedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

func (r *recordingReporter) failedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed)
}

var _ ReceiptReporter = (*recordingReporter)(nil)

func testTransaction() model.Transaction {
	return model.Transaction{
		ID:        "TRX20250829120000",
		CreatedAt: time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC),
		Items: []model.CartLine{
			{Name: "Water", Price: decimal.NewFromInt(4000), Qty: 1},
		},
		Subtotal: decimal.NewFromInt(4000),
		Total:    decimal.NewFromInt(4000),
		Paid:     decimal.NewFromInt(5000),
		Change:   decimal.NewFromInt(1000),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

// Without Redis the dispatcher runs jobs on an in-process goroutine: the
// receipt must land on disk and be reported, with the enqueue itself
// returning immediately.
func TestDispatcherInProcessFallback(t *testing.T) {
	dir := t.TempDir()
	reporter := &recordingReporter{}
	localOnly := func() bool { return false }

	dispatcher := NewDispatcher(nil)
	receipt := NewReceiptWorker(nil, localOnly, infra.ReceiptLayout{StoreName: "Test"}, dir, dispatcher, reporter, nil)
	dispatcher.Bind(&WorkerHandlers{Receipt: receipt})

	err := dispatcher.EnqueueReceipt(context.Background(), ReceiptJobPayload{Transaction: testTransaction()})
	require.NoError(t, err)

	waitFor(t, func() bool { return reporter.storedCount() == 1 })

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "receipt_TRX20250829120000.pdf", files[0].Name())
	assert.Equal(t, filepath.Join(dir, files[0].Name()), reporter.stored[0])
	assert.Empty(t, reporter.uploaded)
	assert.Empty(t, reporter.failed)
}

func TestDispatcherNoHandlersDropsJob(t *testing.T) {
	dispatcher := NewDispatcher(nil)

	// Nothing bound: the job is dropped with a log line, not an error — the
	// commit path must never block on the pipeline.
	err := dispatcher.EnqueueReceipt(context.Background(), ReceiptJobPayload{Transaction: testTransaction()})
	assert.NoError(t, err)
}

func TestReceiptWorkerInvalidPayloadIgnored(t *testing.T) {
	reporter := &recordingReporter{}
	localOnly := func() bool { return false }
	w := NewReceiptWorker(nil, localOnly, infra.ReceiptLayout{}, t.TempDir(), NewDispatcher(nil), reporter, nil)

	w.Process(context.Background(), []byte("{not json"))
	assert.Zero(t, reporter.storedCount())
	assert.Zero(t, reporter.failedCount())
}

// A remote-mode receipt for a transaction without a durable reference id
// must fail fast instead of guessing an upload key.
func TestReceiptWorkerMissingReferenceIDFailsFast(t *testing.T) {
	dir := t.TempDir()
	reporter := &recordingReporter{}
	remote := func() bool { return true }

	dispatcher := NewDispatcher(nil)
	w := NewReceiptWorker(infra.NewBackendClient("http://127.0.0.1:1", time.Second), remote, infra.ReceiptLayout{}, dir, dispatcher, reporter, nil)
	dispatcher.Bind(&WorkerHandlers{Receipt: w})

	tx := testTransaction() // ReferenceID nil
	raw, err := json.Marshal(ReceiptJobPayload{Transaction: tx})
	require.NoError(t, err)
	w.Process(context.Background(), raw)

	// Stored locally, then the upload is rejected before any network call.
	assert.Equal(t, 1, reporter.storedCount())
	waitFor(t, func() bool { return reporter.failedCount() == 1 })
	assert.Equal(t, tx.ID, reporter.failed[0])
}
