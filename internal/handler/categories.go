package handler

import (
	"net/http"

	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// List GET /api/categories — sorted by name, each entry with its live
// product count.
func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryListResponse{Categories: resp})
}

// Create POST /api/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindRequest(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryMutationResponse{
		Message:  "Category created successfully",
		Category: resp,
	})
}

// Get GET /api/categories/:id
func (h *CategoriesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Category not found")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryDetailResponse{Category: resp})
}

// Update PUT /api/categories/:id
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Category not found")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindRequest(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryMutationResponse{
		Message:  "Category updated successfully",
		Category: resp,
	})
}

// Delete DELETE /api/categories/:id — blocked with 400 while products
// still reference the category.
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Category not found")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Category deleted successfully"})
}
