package repository

import (
	"context"

	"verttraue/internal/model"

	"gorm.io/gorm"
)

type AffiliateRepository interface {
	Create(ctx context.Context, a *model.Affiliate) error
	FindByID(ctx context.Context, id string) (*model.Affiliate, error)
	List(ctx context.Context, includeInactive bool) ([]model.Affiliate, error)
	Update(ctx context.Context, a *model.Affiliate) error
	Delete(ctx context.Context, id string) error
	DeleteTx(tx *gorm.DB, id string) error

	// Stock allocation rows, at most one per (product, affiliate)
	ListStock(ctx context.Context, affiliateID string) ([]model.AffiliateStock, error)
	FindStockRow(ctx context.Context, productID, affiliateID string) (*model.AffiliateStock, error)
	CreateStockRow(ctx context.Context, row *model.AffiliateStock) error
	UpdateStockRow(ctx context.Context, row *model.AffiliateStock) error
	DeleteStockRow(ctx context.Context, productID, affiliateID string) error
	DeleteStockByAffiliateTx(tx *gorm.DB, affiliateID string) error

	// Tx variants used by the sale reconcile transaction
	FindStockRowTx(tx *gorm.DB, productID, affiliateID string) (*model.AffiliateStock, error)
	UpdateStockRowTx(tx *gorm.DB, row *model.AffiliateStock) error
	DeleteStockRowTx(tx *gorm.DB, productID, affiliateID string) error

	DB() *gorm.DB
}

type affiliateRepo struct{ db *gorm.DB }

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository { return &affiliateRepo{db: db} }

func (r *affiliateRepo) Create(ctx context.Context, a *model.Affiliate) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *affiliateRepo) FindByID(ctx context.Context, id string) (*model.Affiliate, error) {
	var a model.Affiliate
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *affiliateRepo) List(ctx context.Context, includeInactive bool) ([]model.Affiliate, error) {
	var affiliates []model.Affiliate
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&affiliates).Error
	return affiliates, err
}

func (r *affiliateRepo) Update(ctx context.Context, a *model.Affiliate) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *affiliateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Affiliate{}, "id = ?", id).Error
}

func (r *affiliateRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Affiliate{}, "id = ?", id).Error
}

func (r *affiliateRepo) ListStock(ctx context.Context, affiliateID string) ([]model.AffiliateStock, error) {
	var rows []model.AffiliateStock
	err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).
		Preload("Product").Find(&rows).Error
	return rows, err
}

func (r *affiliateRepo) FindStockRow(ctx context.Context, productID, affiliateID string) (*model.AffiliateStock, error) {
	return r.findStockRow(r.db.WithContext(ctx), productID, affiliateID)
}

func (r *affiliateRepo) FindStockRowTx(tx *gorm.DB, productID, affiliateID string) (*model.AffiliateStock, error) {
	return r.findStockRow(tx, productID, affiliateID)
}

func (r *affiliateRepo) findStockRow(db *gorm.DB, productID, affiliateID string) (*model.AffiliateStock, error) {
	var row model.AffiliateStock
	err := db.Where("product_id = ? AND affiliate_id = ?", productID, affiliateID).
		First(&row).Error
	return &row, err
}

func (r *affiliateRepo) CreateStockRow(ctx context.Context, row *model.AffiliateStock) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *affiliateRepo) UpdateStockRow(ctx context.Context, row *model.AffiliateStock) error {
	return r.db.WithContext(ctx).Model(&model.AffiliateStock{}).
		Where("product_id = ? AND affiliate_id = ?", row.ProductID, row.AffiliateID).
		Update("quantity", row.Quantity).Error
}

func (r *affiliateRepo) UpdateStockRowTx(tx *gorm.DB, row *model.AffiliateStock) error {
	return tx.Model(&model.AffiliateStock{}).
		Where("product_id = ? AND affiliate_id = ?", row.ProductID, row.AffiliateID).
		Update("quantity", row.Quantity).Error
}

func (r *affiliateRepo) DeleteStockRow(ctx context.Context, productID, affiliateID string) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND affiliate_id = ?", productID, affiliateID).
		Delete(&model.AffiliateStock{}).Error
}

func (r *affiliateRepo) DeleteStockByAffiliateTx(tx *gorm.DB, affiliateID string) error {
	return tx.Where("affiliate_id = ?", affiliateID).Delete(&model.AffiliateStock{}).Error
}

func (r *affiliateRepo) DeleteStockRowTx(tx *gorm.DB, productID, affiliateID string) error {
	return tx.Where("product_id = ? AND affiliate_id = ?", productID, affiliateID).
		Delete(&model.AffiliateStock{}).Error
}

func (r *affiliateRepo) DB() *gorm.DB { return r.db }
