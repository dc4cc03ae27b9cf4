package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. CategoryID is nullable: when a category is
// removed through any path that bypasses the delete guard, the database
// nulls the reference (ON DELETE SET NULL) instead of cascading.
type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"uniqueIndex;not null"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0.00"`
	Image       *string
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}
