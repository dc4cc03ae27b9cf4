package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateProductRequest accepts both JSON bodies and multipart form fields
// (the latter when an image file is attached). The category is the category
// NAME; the service resolves it to an id before persisting.
type CreateProductRequest struct {
	Name        string           `json:"name"        form:"name"        validate:"required,max=255"`
	Category    string           `json:"category"    form:"category"    validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price"       form:"price"       validate:"required,gte=0"`
	Rating      *decimal.Decimal `json:"rating"      form:"rating"      validate:"omitempty,gte=0,lte=5"`
	Description *string          `json:"description" form:"description"`
}

// UpdateProductRequest: every field is optional, but a field that is present
// must obey the same rules as on create.
type UpdateProductRequest struct {
	Name        *string          `json:"name"        form:"name"        validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category"    form:"category"    validate:"omitempty,min=1,max=255"`
	Price       *decimal.Decimal `json:"price"       form:"price"       validate:"omitempty,gte=0"`
	Rating      *decimal.Decimal `json:"rating"      form:"rating"      validate:"omitempty,gte=0,lte=5"`
	Description *string          `json:"description" form:"description"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// Sort columns that may be interpolated into an ORDER BY clause. Anything
// outside this allow-list is silently ignored so that client input can never
// name an arbitrary column.
var allowedSortFields = map[string]bool{
	"price":      true,
	"rating":     true,
	"name":       true,
	"created_at": true,
}

// ProductFilter is the optional bag of listing parameters. All provided
// filters compose with AND.
type ProductFilter struct {
	Search    string           `form:"search"`
	Category  string           `form:"category"`
	MinPrice  *decimal.Decimal `form:"min_price"`
	MaxPrice  *decimal.Decimal `form:"max_price"`
	SortBy    string           `form:"sort_by"`
	SortOrder string           `form:"sort_order"`
	PerPage   int              `form:"per_page,default=10"`
	Page      int              `form:"page,default=1"`
}

// Normalize clamps pagination values and canonicalizes the sort fields so
// the repository can use them verbatim.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 10
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	if !allowedSortFields[f.SortBy] {
		f.SortBy = "created_at"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

// OrderClause returns the ORDER BY expression for the normalized filter.
// Callers must Normalize first; both parts come from fixed allow-lists.
func (f *ProductFilter) OrderClause() string {
	return f.SortBy + " " + f.SortOrder
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ProductResponse is the wire shape of a product. Category is a derived
// display field (the linked category's name), computed at serialization
// time; it is null when category_id is null.
type ProductResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Category    *string          `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Rating      decimal.Decimal  `json:"rating"`
	Image       *string          `json:"image"`
	Description *string          `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse mirrors the paginator the frontend consumes.
type ProductListResponse struct {
	Data        []ProductResponse `json:"data"`
	CurrentPage int               `json:"current_page"`
	LastPage    int               `json:"last_page"`
	PerPage     int               `json:"per_page"`
	Total       int64             `json:"total"`
}

type ProductDetailResponse struct {
	Product ProductResponse `json:"product"`
}

type ProductMutationResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// CategoryOption is one entry of the distinct in-use category listing used
// by the filter UI.
type CategoryOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CategoryOptionsResponse struct {
	Categories []CategoryOption `json:"categories"`
}
