package repository

import (
	"context"

	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter, categoryID *uuid.UUID) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CategoriesInUse(ctx context.Context) ([]dto.CategoryOption, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List applies the conjunctive filter set, counts the match before paging,
// and orders by the filter's allow-listed sort column. The category filter
// arrives pre-resolved to an id; resolution (and the unknown-name →
// zero-results rule) is the service's job.
func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter, categoryID *uuid.UUID) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	err := q.Preload("Category").
		Order(filter.OrderClause()).
		Limit(filter.PerPage).
		Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

// CategoriesInUse returns the distinct categories currently referenced by
// at least one product — the filter UI's option list.
func (r *productRepo) CategoriesInUse(ctx context.Context) ([]dto.CategoryOption, error) {
	var options []dto.CategoryOption
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Distinct("categories.id, categories.name").
		Order("categories.name asc").
		Scan(&options).Error
	return options, err
}
