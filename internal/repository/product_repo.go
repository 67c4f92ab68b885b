package repository

import (
	"context"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	FindBySupplierID(ctx context.Context, supplierID string) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	DeleteTx(tx *gorm.DB, id string) error

	// Stock counters with set semantics, nil means leave untouched
	SetStock(ctx context.Context, id string, siteStock, physicalStock *int) error

	// Used inside transactions; callers must pass the tx instance
	AdjustSiteStockTx(tx *gorm.DB, id string, delta int) error

	// Photos (owned sub-resource)
	AddPhoto(ctx context.Context, photo *model.ProductPhoto) error
	DeletePhoto(ctx context.Context, productID string, photoID uint) error
	DeletePhotosTx(tx *gorm.DB, productID string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Photos").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	result := make(map[string]*model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Supplier").Preload("Photos").
		Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindBySupplierID(ctx context.Context, supplierID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).
		Preload("Photos").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) SetStock(ctx context.Context, id string, siteStock, physicalStock *int) error {
	updates := map[string]interface{}{}
	if siteStock != nil {
		updates["site_stock"] = *siteStock
	}
	if physicalStock != nil {
		updates["physical_stock"] = *physicalStock
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (r *productRepo) AdjustSiteStockTx(tx *gorm.DB, id string, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("site_stock", gorm.Expr("site_stock + ?", delta)).Error
}

func (r *productRepo) AddPhoto(ctx context.Context, photo *model.ProductPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *productRepo) DeletePhoto(ctx context.Context, productID string, photoID uint) error {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, photoID).
		Delete(&model.ProductPhoto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) DeletePhotosTx(tx *gorm.DB, productID string) error {
	return tx.Where("product_id = ?", productID).Delete(&model.ProductPhoto{}).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
