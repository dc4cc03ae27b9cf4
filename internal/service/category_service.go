package service

import (
	"context"
	"errors"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/model"
	"github.com/rameshmp2/rightmo-technical-test/internal/repository"
	"github.com/rameshmp2/rightmo-technical-test/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c model.Category, productsCount int64) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		ProductsCount: productsCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c.Category, c.ProductsCount))
	}
	return result, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	fields := validation.Struct(req)
	if req.Name != "" {
		if err := s.checkNameTaken(ctx, req.Name, uuid.Nil, fields); err != nil {
			return dto.CategoryResponse{}, err
		}
	}
	if len(fields) > 0 {
		return dto.CategoryResponse{}, apierror.Validation(fields)
	}

	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c, 0), nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apierror.NotFound("Category not found")
		}
		return dto.CategoryResponse{}, err
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c, count), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apierror.NotFound("Category not found")
		}
		return dto.CategoryResponse{}, err
	}

	fields := validation.Struct(req)
	if req.Name != "" && req.Name != c.Name {
		// Uniqueness check excludes the record's own id.
		if err := s.checkNameTaken(ctx, req.Name, id, fields); err != nil {
			return dto.CategoryResponse{}, err
		}
	}
	if len(fields) > 0 {
		return dto.CategoryResponse{}, apierror.Validation(fields)
	}

	c.Name = req.Name
	if req.Description != nil {
		c.Description = req.Description
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c, count), nil
}

// Delete is guarded: a category still referenced by products cannot be
// removed; the response carries the blocking count.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Category not found")
		}
		return err
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apierror.Conflict("Cannot delete category with existing products", count)
	}
	return s.repo.Delete(ctx, id)
}

// checkNameTaken appends the uniqueness violation to fields when another
// category (excluding excludeID) already owns the name.
func (s *categoryService) checkNameTaken(ctx context.Context, name string, excludeID uuid.UUID, fields map[string][]string) error {
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
