package repository

import (
	"context"

	"verttraue/internal/model"

	"gorm.io/gorm"
)

// BundleRepository mirrors KitRepository; bundles are structurally identical
// composites under a different domain label.
type BundleRepository interface {
	FindByID(ctx context.Context, id string) (*model.Bundle, error)
	List(ctx context.Context) ([]model.Bundle, error)

	CreateHeaderTx(tx *gorm.DB, b *model.Bundle) error
	UpdateHeaderTx(tx *gorm.DB, b *model.Bundle) error
	CreateItemTx(tx *gorm.DB, item *model.BundleItem) error
	DeleteItemsTx(tx *gorm.DB, bundleID string) error
	DeleteTx(tx *gorm.DB, id string) error

	DB() *gorm.DB
}

type bundleRepo struct{ db *gorm.DB }

func NewBundleRepository(db *gorm.DB) BundleRepository { return &bundleRepo{db: db} }

func (r *bundleRepo) FindByID(ctx context.Context, id string) (*model.Bundle, error) {
	var b model.Bundle
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&b, "id = ?", id).Error
	return &b, err
}

func (r *bundleRepo) List(ctx context.Context) ([]model.Bundle, error) {
	var bundles []model.Bundle
	err := r.db.WithContext(ctx).Preload("Items.Product").Order("name ASC").Find(&bundles).Error
	return bundles, err
}

func (r *bundleRepo) CreateHeaderTx(tx *gorm.DB, b *model.Bundle) error {
	return tx.Omit("Items").Create(b).Error
}

func (r *bundleRepo) UpdateHeaderTx(tx *gorm.DB, b *model.Bundle) error {
	return tx.Omit("Items").Save(b).Error
}

func (r *bundleRepo) CreateItemTx(tx *gorm.DB, item *model.BundleItem) error {
	return tx.Create(item).Error
}

func (r *bundleRepo) DeleteItemsTx(tx *gorm.DB, bundleID string) error {
	return tx.Where("bundle_id = ?", bundleID).Delete(&model.BundleItem{}).Error
}

func (r *bundleRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Bundle{}, "id = ?", id).Error
}

func (r *bundleRepo) DB() *gorm.DB { return r.db }
