package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Affiliate struct {
	ID            string `gorm:"primaryKey"`
	FullName      string `gorm:"not null"`
	Email         *string
	Phone         *string
	CommissionPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PayoutKey     *string
	PayoutKeyType *string
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AffiliateStock is the allocation row for a (product, affiliate) pair.
// Invariant: Quantity > 0; a quantity reaching 0 deletes the row instead of
// persisting a zero. At most one row exists per pair (composite primary key).
type AffiliateStock struct {
	ProductID   string `gorm:"primaryKey"`
	AffiliateID string `gorm:"primaryKey"`
	Quantity    int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID"`
}
