package dto

import "github.com/shopspring/decimal"

// Shared request/response shapes for kits and bundles; the two are
// structurally identical (header + component rows).

// CompositeItemInput deliberately carries no quantity validation tag: invalid
// components are skipped with a warning during the composite write rather than
// rejecting the whole request.
type CompositeItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type CreateCompositeRequest struct {
	ID          string               `json:"id"    validate:"required,min=1"`
	Name        string               `json:"name"  validate:"required,min=1"`
	Description *string              `json:"description"`
	Price       decimal.Decimal      `json:"price" validate:"min=0"`
	Items       []CompositeItemInput `json:"items"`
}

// UpdateCompositeRequest: a nil Items keeps the current component rows, a
// non-nil Items (even empty) fully replaces them.
type UpdateCompositeRequest struct {
	Name        *string              `json:"name"  validate:"omitempty,min=1"`
	Description *string              `json:"description"`
	Price       *decimal.Decimal     `json:"price" validate:"omitempty,min=0"`
	Items       *[]CompositeItemInput `json:"items"`
}

type CompositeItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	SiteStock   int             `json:"site_stock"`
	SalePrice   decimal.Decimal `json:"sale_price"`
}

type CompositeResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    *string                 `json:"description"`
	Price          decimal.Decimal         `json:"price"`
	AvailableStock int                     `json:"available_stock"`
	Items          []CompositeItemResponse `json:"items"`
}
