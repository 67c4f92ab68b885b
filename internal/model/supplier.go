package model

import "time"

type Supplier struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     *string
	Phone     *string
	Site      *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
