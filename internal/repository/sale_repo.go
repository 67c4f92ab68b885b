package repository

import (
	"context"
	"time"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"gorm.io/gorm"
)

// SaleRepository. Note the deliberate asymmetry with the kit/bundle writers:
// the sale header is a single insert, but lines are inserted independently so
// one failing line never aborts the sale.
type SaleRepository interface {
	CreateHeader(ctx context.Context, s *model.Sale) error
	CreateItem(ctx context.Context, item *model.SaleItem) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	UpdateHeader(ctx context.Context, s *model.Sale) error
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteItems(ctx context.Context, saleID string) error
	DeleteItemsTx(tx *gorm.DB, saleID string) error
	DeleteTx(tx *gorm.DB, id string) error

	// Dependency guard counts
	CountByAffiliate(ctx context.Context, affiliateID string) (int64, error)
	CountLinesByProduct(ctx context.Context, productID string) (int64, error)
	CountLinesByKit(ctx context.Context, kitID string) (int64, error)
	CountLinesByBundle(ctx context.Context, bundleID string) (int64, error)

	// Reconcile transaction
	FindByIDTx(tx *gorm.DB, id string) (*model.Sale, error)
	MarkReconciledTx(tx *gorm.DB, id string, at time.Time) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateHeader(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Omit("Items").Create(s).Error
}

func (r *saleRepo) CreateItem(ctx context.Context, item *model.SaleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Affiliate").
		Preload("Items.Product").
		Preload("Items.Kit").
		Preload("Items.Bundle").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id string) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.AffiliateID != "" {
		q = q.Where("affiliate_id = ?", filter.AffiliateID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Affiliate").
		Preload("Items.Product").
		Preload("Items.Kit").
		Preload("Items.Bundle").
		Order("sale_date DESC").Limit(filter.Limit).Offset(offset).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) UpdateHeader(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Omit("Items").Save(s).Error
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *saleRepo) DeleteItems(ctx context.Context, saleID string) error {
	return r.db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) DeleteItemsTx(tx *gorm.DB, saleID string) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) CountByAffiliate(ctx context.Context, affiliateID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("affiliate_id = ?", affiliateID).Count(&count).Error
	return count, err
}

func (r *saleRepo) CountLinesByProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *saleRepo) CountLinesByKit(ctx context.Context, kitID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("kit_id = ?", kitID).Count(&count).Error
	return count, err
}

func (r *saleRepo) CountLinesByBundle(ctx context.Context, bundleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("bundle_id = ?", bundleID).Count(&count).Error
	return count, err
}

func (r *saleRepo) MarkReconciledTx(tx *gorm.DB, id string, at time.Time) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).
		Update("reconciled_at", at).Error
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
