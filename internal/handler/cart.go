package handler

import (
	"errors"
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/dto"
	"tokopos/internal/model"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct{ svc *service.CartService }

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.svc.Lines()))
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	lines, err := h.svc.AddLine(c.Request.Context(), productID)
	if err != nil {
		c.JSON(cartErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.SetQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lines, err := h.svc.SetQuantity(c.Request.Context(), productID, req.Qty)
	if err != nil {
		c.JSON(cartErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	c.JSON(http.StatusOK, cartResponse(h.svc.RemoveLine(productID)))
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.svc.Clear()
	c.JSON(http.StatusOK, cartResponse(nil))
}

func cartResponse(lines []model.CartLine) dto.CartResponse {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return dto.CartResponse{
		Lines:     lines,
		Subtotal:  model.CartSubtotal(lines),
		LineCount: len(lines),
	}
}

func cartErrStatus(err error) int {
	if errors.Is(err, service.ErrLineNotFound) {
		return http.StatusNotFound
	}
	var notFound *service.ProductNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var exceeded *service.StockExceededError
	if errors.As(err, &exceeded) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
