package handler

import (
	"errors"
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/dto"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc *service.CheckoutService }

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Commit runs the sale. Validation failures come back synchronously; the
// receipt pipeline outcome does not — it shows up in /notifications.
func (h *CheckoutHandler) Commit(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}

	email := ""
	if req.CustomerEmail != nil {
		email = *req.CustomerEmail
	}

	tx, receiptQueued, err := h.svc.Commit(c.Request.Context(), req.Paid, email)
	if err != nil {
		c.JSON(checkoutErrStatus(err), apierror.New(err.Error()))
		return
	}

	status := "pending"
	if !receiptQueued {
		status = "failed"
	}
	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		Transaction:   *tx,
		ReceiptStatus: status,
	})
}

func checkoutErrStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientPayment):
		return http.StatusBadRequest
	}
	var exceeded *service.StockExceededError
	if errors.As(err, &exceeded) {
		return http.StatusConflict
	}
	var notFound *service.ProductNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}
