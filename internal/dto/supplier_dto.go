package dto

type CreateSupplierRequest struct {
	ID    string  `json:"id"    validate:"required,min=1"`
	Name  string  `json:"name"  validate:"required,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
	Site  *string `json:"site"`
}

type UpdateSupplierRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
	Site  *string `json:"site"`
}

type SupplierResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Site         *string `json:"site"`
	ProductCount int64   `json:"product_count"`
}
