package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"

	SaleKindOnline   = "online"
	SaleKindPhysical = "physical"
)

// Sale header. Recording a sale never touches stock counters; stock is
// adjusted only by the explicit reconcile operation, tracked by ReconciledAt.
type Sale struct {
	ID           string          `gorm:"primaryKey"`
	SaleDate     time.Time       `gorm:"not null"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status       string          `gorm:"not null;default:'pending'"`
	Kind         string          `gorm:"not null"`
	AffiliateID  *string         `gorm:"index"`
	Notes        *string
	ReconciledAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID"`
	Items     []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem references exactly one of {product, kit, bundle}.
type SaleItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	SaleID    string  `gorm:"index;not null"`
	ProductID *string `gorm:"index"`
	KitID     *string `gorm:"index"`
	BundleID  *string `gorm:"index"`
	Quantity  int     `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Kit     *Kit     `gorm:"foreignKey:KitID"`
	Bundle  *Bundle  `gorm:"foreignKey:BundleID"`
}
