package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bundle ("conjunto") is structurally identical to Kit; the distinction is
// purely domain labeling (curated sets vs. assembly kits).
type Bundle struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []BundleItem `gorm:"foreignKey:BundleID"`
}

type BundleItem struct {
	BundleID  string `gorm:"primaryKey"`
	ProductID string `gorm:"primaryKey"`
	Quantity  int    `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
