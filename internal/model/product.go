package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product keeps two independent stock counters: PhysicalStock is what sits on
// the shelf, SiteStock is what the online channel may allocate or sell.
// Neither is derived from the other.
type Product struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"index;not null"`
	Description   *string
	PhysicalStock int             `gorm:"not null;default:0"`
	SiteStock     int             `gorm:"not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SupplierID    *string         `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Photos   []ProductPhoto `gorm:"foreignKey:ProductID"`
}

// ProductPhoto is an owned sub-resource: it never blocks product deletion,
// photos are removed first.
type ProductPhoto struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProductID string `gorm:"index;not null"`
	URL       string `gorm:"not null"`
	CreatedAt time.Time
}
