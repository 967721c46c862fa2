package domain

import (
	"time"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryCadenas  Category = "cadenas"
	CategoryDijes    Category = "dijes"
	CategoryPulseras Category = "pulseras"
	CategoryAros     Category = "aros"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCadenas, CategoryDijes, CategoryPulseras, CategoryAros:
		return true
	}
	return false
}

type Product struct {
	ID            uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string         `json:"name" gorm:"size:255;not null;index"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         int64          `json:"price" gorm:"not null"`
	DiscountPrice *int64         `json:"discountPrice,omitempty"`
	Category      Category       `json:"category" gorm:"type:enum('cadenas','dijes','pulseras','aros');not null;index"`
	Stock         int64          `json:"stock" gorm:"not null;default:0"`
	Materials     string         `json:"materials,omitempty" gorm:"size:255"`
	Dimensions    string         `json:"dimensions,omitempty" gorm:"size:255"`
	Color         string         `json:"color,omitempty" gorm:"size:100"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// EffectivePrice is what the customer actually pays. Prices are CLP, which
// has no decimal subunit, so everything stays an integer.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// Validate enforces the product invariants: non-negative stock, a known
// category, and a discount that never exceeds the list price.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProduct("name is required")
	}
	if p.Price < 0 {
		return ErrInvalidProduct("price must be non-negative")
	}
	if p.Stock < 0 {
		return ErrInvalidProduct("stock must be non-negative")
	}
	if !p.Category.Valid() {
		return ErrInvalidProduct("unknown category")
	}
	if p.DiscountPrice != nil && *p.DiscountPrice > p.Price {
		return ErrInvalidProduct("discount price cannot exceed price")
	}
	return nil
}

type ErrInvalidProduct string

func (e ErrInvalidProduct) Error() string { return "invalid product: " + string(e) }
