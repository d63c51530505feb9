package handler

import (
	"errors"
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct{ svc *service.TransactionService }

func NewTransactionsHandler(svc *service.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// List returns the sale history, newest first.
func (h *TransactionsHandler) List(c *gin.Context) {
	history, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list transactions"))
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *TransactionsHandler) Get(c *gin.Context) {
	tx, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("transaction not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load transaction"))
		return
	}
	c.JSON(http.StatusOK, tx)
}
