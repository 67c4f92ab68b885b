package repository

import (
	"context"

	"verttraue/internal/model"

	"gorm.io/gorm"
)

// KitRepository splits header and item writes so the composite writer in the
// service layer can run them inside a single transaction.
type KitRepository interface {
	FindByID(ctx context.Context, id string) (*model.Kit, error)
	List(ctx context.Context) ([]model.Kit, error)

	CreateHeaderTx(tx *gorm.DB, k *model.Kit) error
	UpdateHeaderTx(tx *gorm.DB, k *model.Kit) error
	CreateItemTx(tx *gorm.DB, item *model.KitItem) error
	DeleteItemsTx(tx *gorm.DB, kitID string) error
	DeleteTx(tx *gorm.DB, id string) error

	DB() *gorm.DB
}

type kitRepo struct{ db *gorm.DB }

func NewKitRepository(db *gorm.DB) KitRepository { return &kitRepo{db: db} }

func (r *kitRepo) FindByID(ctx context.Context, id string) (*model.Kit, error) {
	var k model.Kit
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&k, "id = ?", id).Error
	return &k, err
}

func (r *kitRepo) List(ctx context.Context) ([]model.Kit, error) {
	var kits []model.Kit
	err := r.db.WithContext(ctx).Preload("Items.Product").Order("name ASC").Find(&kits).Error
	return kits, err
}

func (r *kitRepo) CreateHeaderTx(tx *gorm.DB, k *model.Kit) error {
	return tx.Omit("Items").Create(k).Error
}

func (r *kitRepo) UpdateHeaderTx(tx *gorm.DB, k *model.Kit) error {
	return tx.Omit("Items").Save(k).Error
}

func (r *kitRepo) CreateItemTx(tx *gorm.DB, item *model.KitItem) error {
	return tx.Create(item).Error
}

func (r *kitRepo) DeleteItemsTx(tx *gorm.DB, kitID string) error {
	return tx.Where("kit_id = ?", kitID).Delete(&model.KitItem{}).Error
}

func (r *kitRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Kit{}, "id = ?", id).Error
}

func (r *kitRepo) DB() *gorm.DB { return r.db }
