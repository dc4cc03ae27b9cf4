package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/model"
	"github.com/rameshmp2/rightmo-technical-test/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products  map[uuid.UUID]*model.Product
	deleted   []uuid.UUID
	creates   int
	updateErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.creates++
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter, categoryID *uuid.UUID) ([]model.Product, int64, error) {
	var match []model.Product
	for _, p := range r.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		match = append(match, *p)
	}
	sort.Slice(match, func(i, j int) bool { return match[i].Name < match[j].Name })

	total := int64(len(match))
	start := (filter.Page - 1) * filter.PerPage
	if start > len(match) {
		start = len(match)
	}
	end := start + filter.PerPage
	if end > len(match) {
		end = len(match)
	}
	return match[start:end], total, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubProductRepo) CategoriesInUse(_ context.Context) ([]dto.CategoryOption, error) {
	seen := make(map[uuid.UUID]bool)
	var options []dto.CategoryOption
	for _, p := range r.products {
		if p.Category != nil && !seen[p.Category.ID] {
			seen[p.Category.ID] = true
			options = append(options, dto.CategoryOption{ID: p.Category.ID, Name: p.Category.Name})
		}
	}
	return options, nil
}

// ── Stub file cleaner ────────────────────────────────────────────────────────

type stubCleaner struct{ enqueued []string }

func (c *stubCleaner) EnqueueFileDelete(_ context.Context, path string) error {
	c.enqueued = append(c.enqueued, path)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type productFixture struct {
	svc        ProductService
	repo       *stubProductRepo
	categories *stubCategoryRepo
	cleaner    *stubCleaner
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	images, err := storage.NewImageStore(t.TempDir(), 2048)
	require.NoError(t, err)

	repo := newStubProductRepo()
	categories := newStubCategoryRepo()
	cleaner := &stubCleaner{}
	return &productFixture{
		svc:        NewProductService(repo, categories, images, cleaner),
		repo:       repo,
		categories: categories,
		cleaner:    cleaner,
	}
}

func (f *productFixture) seedProduct(name, price string, cat *model.Category) *model.Product {
	p := &model.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	if cat != nil {
		p.CategoryID = &cat.ID
		p.Category = cat
	}
	f.repo.products[p.ID] = p
	return p
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func pngUpload(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestProductCreate(t *testing.T) {
	f := newProductFixture(t)
	f.categories.seed("Electronics", 0)

	resp, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Laptop Pro 15",
		Category: "Electronics",
		Price:    decp("1299.99"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro 15", resp.Name)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "Electronics", *resp.Category)
	assert.True(t, resp.Rating.Equal(decimal.Zero), "rating defaults to 0.00")
}

func TestProductCreateMissingNameCreatesNoRow(t *testing.T) {
	f := newProductFixture(t)
	f.categories.seed("Electronics", 0)

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Category: "Electronics",
		Price:    decp("10"),
	}, nil)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Contains(t, apiErr.Payload.Errors, "name")
	assert.Zero(t, f.repo.creates, "validation failure must not create a row")
}

func TestProductCreateInvalidCategoryIsDistinctError(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Laptop",
		Category: "Nonexistent",
		Price:    decp("10"),
	}, nil)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "Invalid category", apiErr.Payload.Message)
	assert.Equal(t, []string{"The selected category does not exist"}, apiErr.Payload.Errors["category"])
}

func TestProductCreateDuplicateName(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	f.seedProduct("Laptop", "10", cat)

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Laptop",
		Category: "Electronics",
		Price:    decp("10"),
	}, nil)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"The name has already been taken."}, apiErr.Payload.Errors["name"])
}

func TestProductCreateNegativePriceAndHighRating(t *testing.T) {
	f := newProductFixture(t)
	f.categories.seed("Electronics", 0)

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Laptop",
		Category: "Electronics",
		Price:    decp("-1"),
		Rating:   decp("5.01"),
	}, nil)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Payload.Errors, "price")
	assert.Contains(t, apiErr.Payload.Errors, "rating")
	assert.Zero(t, f.repo.creates)
}

func TestProductCreateWithImage(t *testing.T) {
	f := newProductFixture(t)
	f.categories.seed("Electronics", 0)

	resp, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Camera",
		Category: "Electronics",
		Price:    decp("499.99"),
	}, pngUpload(t, "camera.png"))
	require.NoError(t, err)
	require.NotNil(t, resp.Image)
	assert.True(t, strings.HasPrefix(*resp.Image, "products/"))
	assert.True(t, strings.HasSuffix(*resp.Image, "_camera.png"))
}

func TestProductCreateRejectsBadImageFormat(t *testing.T) {
	f := newProductFixture(t)
	f.categories.seed("Electronics", 0)

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Camera",
		Category: "Electronics",
		Price:    decp("499.99"),
	}, pngUpload(t, "camera.bmp"))
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"The image must be a file of type: jpeg, png, jpg, gif."}, apiErr.Payload.Errors["image"])
	assert.Zero(t, f.repo.creates)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestProductListPriceRange(t *testing.T) {
	f := newProductFixture(t)
	f.seedProduct("Cheap", "50", nil)
	f.seedProduct("Mid", "150", nil)
	f.seedProduct("Expensive", "250", nil)

	resp, err := f.svc.List(context.Background(), dto.ProductFilter{
		MinPrice: decp("100"),
		MaxPrice: decp("200"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Mid", resp.Data[0].Name)
	assert.EqualValues(t, 1, resp.Total)
}

func TestProductListUnknownCategoryYieldsEmptyPage(t *testing.T) {
	f := newProductFixture(t)
	f.seedProduct("Laptop", "10", nil)

	resp, err := f.svc.List(context.Background(), dto.ProductFilter{Category: "Ghosts"})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.EqualValues(t, 0, resp.Total)
	assert.Equal(t, 1, resp.LastPage)
	assert.Equal(t, 10, resp.PerPage)
}

func TestProductListConjunctiveFilters(t *testing.T) {
	f := newProductFixture(t)
	electronics := f.categories.seed("Electronics", 0)
	furniture := f.categories.seed("Furniture", 0)
	f.seedProduct("Laptop Pro 15", "1299.99", electronics)
	f.seedProduct("Laptop Air 13", "850.00", electronics)
	f.seedProduct("Laptop Desk", "950.00", furniture)
	f.seedProduct("Wireless Mouse", "29.99", electronics)

	resp, err := f.svc.List(context.Background(), dto.ProductFilter{
		Search:   "Laptop",
		Category: "Electronics",
		MinPrice: decp("900"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Laptop Pro 15", resp.Data[0].Name)
}

func TestProductListPaginationMeta(t *testing.T) {
	f := newProductFixture(t)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		f.seedProduct(name, "10", nil)
	}

	resp, err := f.svc.List(context.Background(), dto.ProductFilter{PerPage: 3, Page: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.EqualValues(t, 7, resp.Total)
	assert.Equal(t, 3, resp.LastPage)
	assert.Equal(t, 3, resp.CurrentPage)
	assert.Equal(t, 3, resp.PerPage)
}

// ── Get / Update / Delete ────────────────────────────────────────────────────

func TestProductGetNotFound(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestProductUpdatePriceOnly(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	p := f.seedProduct("Laptop", "999.99", cat)
	desc := "older model"
	p.Description = &desc

	resp, err := f.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		Price: decp("899.99"),
	}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("899.99")))
	assert.Equal(t, "Laptop", resp.Name, "other fields unchanged")
	require.NotNil(t, resp.Description)
	assert.Equal(t, "older model", *resp.Description)
}

func TestProductUpdateDuplicateNameExcludesSelf(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	p := f.seedProduct("Laptop", "10", cat)
	f.seedProduct("Mouse", "5", cat)

	// own name is fine
	_, err := f.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: &p.Name}, nil)
	require.NoError(t, err)

	taken := "Mouse"
	_, err = f.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: &taken}, nil)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"The name has already been taken."}, apiErr.Payload.Errors["name"])
}

func TestProductUpdateReplacedImageIsCleanedUp(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	p := f.seedProduct("Camera", "100", cat)
	old := "products/1000_old.png"
	p.Image = &old

	resp, err := f.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{}, pngUpload(t, "new.png"))
	require.NoError(t, err)
	require.NotNil(t, resp.Image)
	assert.True(t, strings.HasSuffix(*resp.Image, "_new.png"))
	assert.Equal(t, []string{"products/1000_old.png"}, f.cleaner.enqueued)
}

func TestProductUpdateFailedSaveKeepsOldImage(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	p := f.seedProduct("Camera", "100", cat)
	old := "products/1000_old.png"
	p.Image = &old
	f.repo.updateErr = assert.AnError

	_, err := f.svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{}, pngUpload(t, "new.png"))
	require.Error(t, err)
	assert.Empty(t, f.cleaner.enqueued, "still-referenced file must not be queued for deletion")
}

func TestProductDeleteRemovesImage(t *testing.T) {
	f := newProductFixture(t)
	p := f.seedProduct("Camera", "100", nil)
	img := "products/1000_camera.png"
	p.Image = &img

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	assert.Equal(t, []uuid.UUID{p.ID}, f.repo.deleted)
	assert.Equal(t, []string{img}, f.cleaner.enqueued)
}

func TestProductDeleteNotFound(t *testing.T) {
	f := newProductFixture(t)

	err := f.svc.Delete(context.Background(), uuid.New())
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestProductCategoriesInUse(t *testing.T) {
	f := newProductFixture(t)
	cat := f.categories.seed("Electronics", 0)
	f.seedProduct("Laptop", "10", cat)
	f.seedProduct("Mouse", "5", cat)
	f.seedProduct("Orphan", "1", nil)

	options, err := f.svc.CategoriesInUse(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Electronics", options[0].Name)
}
