package dto

import "github.com/shopspring/decimal"

type CreateAffiliateRequest struct {
	ID            string          `json:"id"              validate:"required,min=1"`
	FullName      string          `json:"full_name"       validate:"required,min=1"`
	Email         *string         `json:"email"           validate:"omitempty,email"`
	Phone         *string         `json:"phone"`
	CommissionPct decimal.Decimal `json:"commission_pct"  validate:"min=0,max=100"`
	PayoutKey     *string         `json:"payout_key"`
	PayoutKeyType *string         `json:"payout_key_type" validate:"omitempty,oneof=cpf cnpj email phone random"`
}

type UpdateAffiliateRequest struct {
	FullName      *string          `json:"full_name"       validate:"omitempty,min=1"`
	Email         *string          `json:"email"           validate:"omitempty,email"`
	Phone         *string          `json:"phone"`
	CommissionPct *decimal.Decimal `json:"commission_pct"  validate:"omitempty,min=0,max=100"`
	PayoutKey     *string          `json:"payout_key"`
	PayoutKeyType *string          `json:"payout_key_type" validate:"omitempty,oneof=cpf cnpj email phone random"`
	Active        *bool            `json:"active"`
}

// SetAffiliateStockRequest sets the allocation for (product, affiliate) to an
// absolute quantity. Zero removes the allocation row.
type SetAffiliateStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"min=0"`
}

type AffiliateResponse struct {
	ID            string          `json:"id"`
	FullName      string          `json:"full_name"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	CommissionPct decimal.Decimal `json:"commission_pct"`
	PayoutKey     *string         `json:"payout_key"`
	PayoutKeyType *string         `json:"payout_key_type"`
	Active        bool            `json:"active"`
}

type AffiliateStockResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}
