package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryResponse annotates every category with its live product count.
// The count is computed at read time, never stored.
type CategoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	ProductsCount int64     `json:"products_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryDetailResponse struct {
	Category CategoryResponse `json:"category"`
}

type CategoryMutationResponse struct {
	Message  string           `json:"message"`
	Category CategoryResponse `json:"category"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
