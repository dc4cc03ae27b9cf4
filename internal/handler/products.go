package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List GET /api/products
// Query params: search, category, min_price, max_price, sort_by, sort_order, per_page, page
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Payload{Message: "Invalid query parameters"})
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create POST /api/products — multipart when an image is included.
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindRequest(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req, optionalImage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ProductMutationResponse{
		Message: "Product created successfully",
		Product: *resp,
	})
}

// Get GET /api/products/:id
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "Product not found")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductDetailResponse{Product: *resp})
}

// Update PUT/PATCH /api/products/:id
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "Product not found")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindRequest(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req, optionalImage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductMutationResponse{
		Message: "Product updated successfully",
		Product: *resp,
	})
}

// Delete DELETE /api/products/:id
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "Product not found")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

// CategoriesInUse GET /api/products/categories — the distinct category set
// referenced by current products, for the filter dropdown.
func (h *ProductsHandler) CategoriesInUse(c *gin.Context) {
	options, err := h.svc.CategoriesInUse(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if options == nil {
		options = []dto.CategoryOption{}
	}
	c.JSON(http.StatusOK, dto.CategoryOptionsResponse{Categories: options})
}

// optionalImage returns the uploaded image file, or nil when the request
// carries none (including plain JSON requests).
func optionalImage(c *gin.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

