package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/model"
	"github.com/rameshmp2/rightmo-technical-test/internal/repository"
	"github.com/rameshmp2/rightmo-technical-test/internal/storage"
	"github.com/rameshmp2/rightmo-technical-test/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FileCleaner enqueues stored-file deletions to run off the request path.
// Implemented by worker.Dispatcher.
type FileCleaner interface {
	EnqueueFileDelete(ctx context.Context, path string) error
}

// ProductService defines the business logic contract for products.
type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CategoriesInUse(ctx context.Context) ([]dto.CategoryOption, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	images     *storage.ImageStore
	cleaner    FileCleaner
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	images *storage.ImageStore,
	cleaner FileCleaner,
) ProductService {
	return &productService{repo: repo, categories: categories, images: images, cleaner: cleaner}
}

// mapProduct projects a row to the wire shape. The category display name is
// computed here from the preloaded relation, never stored on the product.
func mapProduct(p model.Product) dto.ProductResponse {
	var categoryName *string
	if p.Category != nil {
		categoryName = &p.Category.Name
	}
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Category:    categoryName,
		Price:       p.Price,
		Rating:      p.Rating,
		Image:       p.Image,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func lastPage(total int64, perPage int) int {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	filter.Normalize()

	// The category filter takes a name, resolved to an id before querying.
	// An unknown name yields an empty page, unlike create/update where an
	// unresolvable category is an error.
	var categoryID *uuid.UUID
	if filter.Category != "" {
		cat, err := s.categories.FindByName(ctx, filter.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &dto.ProductListResponse{
					Data:        []dto.ProductResponse{},
					CurrentPage: filter.Page,
					LastPage:    1,
					PerPage:     filter.PerPage,
					Total:       0,
				}, nil
			}
			return nil, err
		}
		categoryID = &cat.ID
	}

	products, total, err := s.repo.List(ctx, filter, categoryID)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, mapProduct(p))
	}
	return &dto.ProductListResponse{
		Data:        data,
		CurrentPage: filter.Page,
		LastPage:    lastPage(total, filter.PerPage),
		PerPage:     filter.PerPage,
		Total:       total,
	}, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	fields := validation.Struct(req)
	if req.Name != "" {
		if err := s.checkNameTaken(ctx, req.Name, uuid.Nil, fields); err != nil {
			return nil, err
		}
	}
	if image != nil {
		for _, reason := range s.images.Validate(image) {
			fields["image"] = append(fields["image"], reason)
		}
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	cat, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:        req.Name,
		CategoryID:  &cat.ID,
		Price:       *req.Price,
		Rating:      decimal.Zero,
		Description: req.Description,
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if image != nil {
		path, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Category = cat
	resp := mapProduct(*p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}
	resp := mapProduct(*p)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	fields := validation.Struct(req)
	if req.Name != nil && *req.Name != p.Name {
		if err := s.checkNameTaken(ctx, *req.Name, id, fields); err != nil {
			return nil, err
		}
	}
	if image != nil {
		for _, reason := range s.images.Validate(image) {
			fields["image"] = append(fields["image"], reason)
		}
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	if req.Category != nil {
		cat, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &cat.ID
		p.Category = cat
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.Description != nil {
		p.Description = req.Description
	}

	var oldImage *string
	if image != nil {
		oldImage = p.Image
		path, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// The prior file is cleaned up on the worker queue, and only after the
	// row points at the new path; a failed save keeps the old file intact.
	if oldImage != nil {
		if err := s.cleaner.EnqueueFileDelete(ctx, *oldImage); err != nil {
			return nil, err
		}
	}
	resp := mapProduct(*p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Product not found")
		}
		return err
	}

	if p.Image != nil {
		if err := s.cleaner.EnqueueFileDelete(ctx, *p.Image); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) CategoriesInUse(ctx context.Context) ([]dto.CategoryOption, error) {
	return s.repo.CategoriesInUse(ctx)
}

// resolveCategory maps the public name to the stored row. On create/update
// an unresolvable name is a dedicated 422, not a generic validation error.
func (s *productService) resolveCategory(ctx context.Context, name string) (*model.Category, error) {
	cat, err := s.categories.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.InvalidCategory()
		}
		return nil, err
	}
	return cat, nil
}

func (s *productService) checkNameTaken(ctx context.Context, name string, excludeID uuid.UUID, fields map[string][]string) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		fields["name"] = append(fields["name"], validation.Taken("name"))
	}
	return nil
}
