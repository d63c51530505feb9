package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"tokopos/internal/model"

	"github.com/shopspring/decimal"
)

// CommitItem is one cart line in the wire format the remote backend accepts.
type CommitItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// CommitPayload is sent to POST /api/transactions.
type CommitPayload struct {
	Items []CommitItem    `json:"items"`
	Paid  decimal.Decimal `json:"paid"`
}

// RemoteTransaction is the backend's representation of a persisted sale.
// ID is the durable numeric identifier; Code is the display code. Prices
// and names are authoritative as of sale time.
type RemoteTransaction struct {
	ID        int64            `json:"id"`
	Code      string           `json:"code"`
	CreatedAt time.Time        `json:"created_at"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Total     decimal.Decimal  `json:"total"`
	Paid      decimal.Decimal  `json:"paid"`
	Change    decimal.Decimal  `json:"change"`
	Items     []model.CartLine `json:"items"`
}

// ReceiptUploadResult is returned by the receipt upload endpoint.
type ReceiptUploadResult struct {
	URL string `json:"url,omitempty"`
}

// BackendClient talks to the remote POS backend over HTTP. Every call is
// time-bounded by the client timeout; a timeout is treated the same as any
// other transport failure by the callers.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BackendClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateTransaction posts a sale for commit. The backend is the sole
// authority for id assignment, stock decrement, and stock log creation.
func (c *BackendClient) CreateTransaction(ctx context.Context, payload CommitPayload) (*RemoteTransaction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("backend: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend: transaction endpoint returned %d", resp.StatusCode)
	}

	var result RemoteTransaction
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("backend: decode response: %w", err)
	}
	return &result, nil
}

// UploadReceipt attaches a rendered receipt document to the transaction
// identified by its durable reference id.
func (c *BackendClient) UploadReceipt(ctx context.Context, referenceID int64, filename string, document []byte) (*ReceiptUploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, fmt.Errorf("backend: build multipart: %w", err)
	}
	if _, err := part.Write(document); err != nil {
		return nil, fmt.Errorf("backend: write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("backend: close multipart: %w", err)
	}

	url := fmt.Sprintf("%s/api/transactions/%d/receipt", c.baseURL, referenceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("backend: receipt endpoint returned %d", resp.StatusCode)
	}

	var result ReceiptUploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		return nil, fmt.Errorf("backend: decode response: %w", err)
	}
	return &result, nil
}

// FetchSummary retrieves the pre-aggregated dashboard summary.
func (c *BackendClient) FetchSummary(ctx context.Context) (*model.Summary, error) {
	var s model.Summary
	if err := c.getJSON(ctx, "/api/dashboard/summary", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FetchProducts retrieves the current product snapshot.
func (c *BackendClient) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.getJSON(ctx, "/api/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCategories retrieves the current category snapshot.
func (c *BackendClient) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.getJSON(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTransactions retrieves the transaction history, newest first.
func (c *BackendClient) FetchTransactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := c.getJSON(ctx, "/api/transactions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend: %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}
