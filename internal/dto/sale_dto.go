package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemInput must reference exactly one of product/kit/bundle. Reference and
// quantity checks happen in the sale recorder, which skips bad lines instead of
// failing the sale, so no validator tags beyond basic shape.
type SaleItemInput struct {
	ProductID *string         `json:"product_id"`
	KitID     *string         `json:"kit_id"`
	BundleID  *string         `json:"bundle_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateSaleRequest struct {
	ID          string          `json:"id"        validate:"required,min=1"`
	SaleDate    time.Time       `json:"sale_date" validate:"required"`
	Total       decimal.Decimal `json:"total"     validate:"min=0"`
	Status      string          `json:"status"    validate:"omitempty,oneof=pending completed cancelled"`
	Kind        string          `json:"kind"      validate:"required,oneof=online physical"`
	AffiliateID *string         `json:"affiliate_id"`
	Notes       *string         `json:"notes"`
	Items       []SaleItemInput `json:"items"`
}

type UpdateSaleRequest struct {
	SaleDate    *time.Time       `json:"sale_date"`
	Total       *decimal.Decimal `json:"total"  validate:"omitempty,min=0"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Kind        *string          `json:"kind"   validate:"omitempty,oneof=online physical"`
	AffiliateID *string          `json:"affiliate_id"`
	Notes       *string          `json:"notes"`
	Items       *[]SaleItemInput `json:"items"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

type SaleFilter struct {
	Status      string `form:"status"`
	Kind        string `form:"kind"`
	AffiliateID string `form:"affiliate_id"`
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID        uint            `json:"id"`
	ProductID *string         `json:"product_id,omitempty"`
	KitID     *string         `json:"kit_id,omitempty"`
	BundleID  *string         `json:"bundle_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	SaleDate      string             `json:"sale_date"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	Kind          string             `json:"kind"`
	AffiliateID   *string            `json:"affiliate_id,omitempty"`
	AffiliateName *string            `json:"affiliate_name,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Reconciled    bool               `json:"reconciled"`
	Items         []SaleItemResponse `json:"items"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
