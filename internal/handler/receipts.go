package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"tokopos/internal/apierror"
	"tokopos/internal/dto"
	"tokopos/internal/infra"
	"tokopos/internal/service"
	"tokopos/internal/worker"

	"github.com/gin-gonic/gin"
)

// ReceiptsHandler serves stored receipt documents and re-sends them by
// email. Rendering is deterministic, so a receipt missing from disk can be
// regenerated from the transaction history at any time.
type ReceiptsHandler struct {
	transactions *service.TransactionService
	dispatcher   *worker.Dispatcher
	layout       infra.ReceiptLayout
	storagePath  string
}

func NewReceiptsHandler(
	transactions *service.TransactionService,
	dispatcher *worker.Dispatcher,
	layout infra.ReceiptLayout,
	storagePath string,
) *ReceiptsHandler {
	return &ReceiptsHandler{
		transactions: transactions,
		dispatcher:   dispatcher,
		layout:       layout,
		storagePath:  storagePath,
	}
}

// Download returns the PDF for a transaction code. Serves the stored copy
// when present, re-renders otherwise.
func (h *ReceiptsHandler) Download(c *gin.Context) {
	code := c.Param("code")

	tx, err := h.transactions.Get(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("transaction not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load transaction"))
		return
	}

	filename, data, err := infra.GenerateReceiptPDF(tx, h.layout)
	stored := filepath.Join(h.storagePath, filename)
	if onDisk, readErr := os.ReadFile(stored); readErr == nil {
		data = onDisk
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render receipt"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Email re-sends the receipt for a transaction code to the given address.
// The document must already be stored (or is regenerated first); delivery
// itself is asynchronous.
func (h *ReceiptsHandler) Email(c *gin.Context) {
	code := c.Param("code")
	var req dto.EmailReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("transaction not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load transaction"))
		return
	}

	filename, data, err := infra.GenerateReceiptPDF(tx, h.layout)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render receipt"))
		return
	}
	path := filepath.Join(h.storagePath, filename)
	if _, statErr := os.Stat(path); statErr != nil {
		if mkErr := os.MkdirAll(h.storagePath, 0755); mkErr != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("failed to store receipt"))
			return
		}
		if writeErr := os.WriteFile(path, data, 0644); writeErr != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("failed to store receipt"))
			return
		}
	}

	job := worker.EmailJobPayload{
		TransactionID: tx.ID,
		ToEmail:       req.To,
		Subject:       "Your receipt " + tx.ID,
		Body:          "Thank you for your purchase. Your receipt is attached.",
		PDFPath:       path,
	}
	if err := h.dispatcher.EnqueueEmail(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to queue email"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
