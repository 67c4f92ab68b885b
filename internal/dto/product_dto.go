package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ID            string          `json:"id"             validate:"required,min=1"`
	Name          string          `json:"name"           validate:"required,min=1"`
	Description   *string         `json:"description"`
	PhysicalStock int             `json:"physical_stock" validate:"min=0"`
	SiteStock     int             `json:"site_stock"     validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SupplierID    *string         `json:"supplier_id"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=1"`
	Description   *string          `json:"description"`
	PhysicalStock *int             `json:"physical_stock" validate:"omitempty,min=0"`
	SiteStock     *int             `json:"site_stock"     validate:"omitempty,min=0"`
	SalePrice     *decimal.Decimal `json:"sale_price"     validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,min=0"`
	SupplierID    *string          `json:"supplier_id"`
}

// AdjustStockRequest sets the counters to the given values (set, not delta).
type AdjustStockRequest struct {
	SiteStock     *int `json:"site_stock"     validate:"omitempty,min=0"`
	PhysicalStock *int `json:"physical_stock" validate:"omitempty,min=0"`
}

type AddPhotoRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ProductFilter struct {
	Name       string `form:"name"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PhotoResponse struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// ProductResponse inlines the supplier name so clients never need a follow-up
// call to resolve it.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	PhysicalStock int             `json:"physical_stock"`
	SiteStock     int             `json:"site_stock"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SupplierID    *string         `json:"supplier_id"`
	SupplierName  *string         `json:"supplier_name,omitempty"`
	Photos        []PhotoResponse `json:"photos"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
