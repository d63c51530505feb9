package handler

import (
	"errors"
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/dto"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta, req.Note)
	if err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, p)
}

// catalogErrStatus maps catalog mutation errors to HTTP statuses. Remote
// mode mutations are a conflict with the active mode, not a bad request.
func catalogErrStatus(err error) int {
	if errors.Is(err, service.ErrRemoteManaged) {
		return http.StatusConflict
	}
	var notFound *service.ProductNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
