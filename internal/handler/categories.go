package handler

import (
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/dto"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriesHandler struct{ svc service.CatalogService }

func NewCategoriesHandler(svc service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list categories"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoriesHandler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.RenameCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat, err := h.svc.RenameCategory(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		c.JSON(catalogErrStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
