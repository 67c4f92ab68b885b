package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kit is a priced, named grouping of products with per-product required
// quantities. Available stock is never stored; it is computed on read from
// the component products' site stock.
type Kit struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []KitItem `gorm:"foreignKey:KitID"`
}

type KitItem struct {
	KitID     string `gorm:"primaryKey"`
	ProductID string `gorm:"primaryKey"`
	Quantity  int    `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
