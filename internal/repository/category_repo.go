package repository

import (
	"context"

	"github.com/rameshmp2/rightmo-technical-test/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryWithCount pairs a category row with its live product count,
// computed by the query rather than stored.
type CategoryWithCount struct {
	model.Category
	ProductsCount int64
}

// CategoryRepository defines the data access contract for categories.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context) ([]CategoryWithCount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// List returns every category ordered by name ascending, each annotated
// with its product count via a correlated subquery.
func (r *categoryRepository) List(ctx context.Context) ([]CategoryWithCount, error) {
	var list []CategoryWithCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.*, (SELECT count(*) FROM products WHERE products.category_id = categories.id) AS products_count").
		Order("name asc").
		Find(&list).Error
	return list, err
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName matches exactly and case-sensitively: uniqueness and category
// resolution are both defined over the exact stored name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}
