package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProductService returns canned values so the tests exercise only the
// HTTP layer: binding, id parsing and error-to-status mapping.
type stubProductService struct {
	product *dto.ProductResponse
	err     error
	gotID   uuid.UUID
}

func (s *stubProductService) List(context.Context, dto.ProductFilter) (*dto.ProductListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProductListResponse{Data: []dto.ProductResponse{}, CurrentPage: 1, LastPage: 1, PerPage: 10}, nil
}

func (s *stubProductService) Create(_ context.Context, _ dto.CreateProductRequest, _ *multipart.FileHeader) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Get(_ context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Update(_ context.Context, id uuid.UUID, _ dto.UpdateProductRequest, _ *multipart.FileHeader) (*dto.ProductResponse, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Delete(_ context.Context, id uuid.UUID) error {
	s.gotID = id
	return s.err
}

func (s *stubProductService) CategoriesInUse(context.Context) ([]dto.CategoryOption, error) {
	return nil, s.err
}

func productsRouter(svc *stubProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProductsHandler(svc)
	r.GET("/api/products", h.List)
	r.GET("/api/products/categories", h.CategoriesInUse)
	r.POST("/api/products", h.Create)
	r.GET("/api/products/:id", h.Get)
	r.DELETE("/api/products/:id", h.Delete)
	return r
}

func perform(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductsMalformedBodyIs400(t *testing.T) {
	r := productsRouter(&stubProductService{})

	w := perform(t, r, "POST", "/api/products", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body apierror.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Malformed request body", body.Message)
}

func TestProductsUnparseableIDIs404(t *testing.T) {
	svc := &stubProductService{}
	r := productsRouter(svc)

	w := perform(t, r, "GET", "/api/products/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body apierror.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Product not found", body.Message)
	assert.Equal(t, uuid.Nil, svc.gotID, "service never reached")
}

func TestProductsServiceErrorStatusIsForwarded(t *testing.T) {
	svc := &stubProductService{err: apierror.Validation(map[string][]string{
		"name": {"The name field is required."},
	})}
	r := productsRouter(svc)

	w := perform(t, r, "POST", "/api/products", `{"category":"x","price":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body apierror.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"The name field is required."}, body.Errors["name"])
}

func TestProductsUnknownErrorIs500(t *testing.T) {
	svc := &stubProductService{err: assert.AnError}
	r := productsRouter(svc)

	w := perform(t, r, "GET", "/api/products/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body apierror.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestProductsInvalidQueryIs400(t *testing.T) {
	r := productsRouter(&stubProductService{})

	w := perform(t, r, "GET", "/api/products?per_page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsCategoriesRouteNotShadowedByID(t *testing.T) {
	r := productsRouter(&stubProductService{})

	w := perform(t, r, "GET", "/api/products/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.CategoryOptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Categories)
}

func TestProductsDeleteForwardsID(t *testing.T) {
	svc := &stubProductService{}
	r := productsRouter(svc)
	id := uuid.New()

	w := perform(t, r, "DELETE", "/api/products/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.gotID)

	var body dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Product deleted successfully", body.Message)
}
