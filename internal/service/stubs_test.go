package service

// In-memory repository stubs. DB() returns nil so runTx executes the
// transaction body directly.

import (
	"context"
	"time"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"gorm.io/gorm"
)

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[string]*model.Product
	photos   []*model.ProductPhoto

	// writes issued through the base connection instead of a tx
	deletesOutsideTx int
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) (map[string]*model.Product, error) {
	result := make(map[string]*model.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	result := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) FindBySupplierID(_ context.Context, supplierID string) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.deletesOutsideTx++
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) SetStock(_ context.Context, id string, siteStock, physicalStock *int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if siteStock != nil {
		p.SiteStock = *siteStock
	}
	if physicalStock != nil {
		p.PhysicalStock = *physicalStock
	}
	return nil
}

func (r *stubProductRepo) AdjustSiteStockTx(_ *gorm.DB, id string, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SiteStock += delta
	return nil
}

func (r *stubProductRepo) AddPhoto(_ context.Context, photo *model.ProductPhoto) error {
	photo.ID = uint(len(r.photos) + 1)
	r.photos = append(r.photos, photo)
	if p, ok := r.products[photo.ProductID]; ok {
		p.Photos = append(p.Photos, *photo)
	}
	return nil
}

func (r *stubProductRepo) DeletePhoto(_ context.Context, productID string, photoID uint) error {
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, ph := range p.Photos {
		if ph.ID == photoID {
			p.Photos = append(p.Photos[:i], p.Photos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) DeletePhotosTx(_ *gorm.DB, productID string) error {
	if p, ok := r.products[productID]; ok {
		p.Photos = nil
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── SupplierRepository stub ──────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers   map[string]*model.Supplier
	productRepo *stubProductRepo
}

func newStubSupplierRepo(productRepo *stubProductRepo, suppliers ...*model.Supplier) *stubSupplierRepo {
	r := &stubSupplierRepo{suppliers: make(map[string]*model.Supplier), productRepo: productRepo}
	for _, s := range suppliers {
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if _, ok := r.suppliers[s.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id string) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	result := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		result = append(result, *s)
	}
	return result, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id string) error {
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) CountProducts(_ context.Context, id string) (int64, error) {
	var count int64
	if r.productRepo == nil {
		return 0, nil
	}
	for _, p := range r.productRepo.products {
		if p.SupplierID != nil && *p.SupplierID == id {
			count++
		}
	}
	return count, nil
}

func (r *stubSupplierRepo) DB() *gorm.DB { return nil }

// ── AffiliateRepository stub ─────────────────────────────────────────────────

type stockKey struct{ productID, affiliateID string }

type stubAffiliateRepo struct {
	affiliates map[string]*model.Affiliate
	stock      map[stockKey]*model.AffiliateStock

	// writes issued through the base connection instead of a tx
	deletesOutsideTx int
}

func newStubAffiliateRepo(affiliates ...*model.Affiliate) *stubAffiliateRepo {
	r := &stubAffiliateRepo{
		affiliates: make(map[string]*model.Affiliate),
		stock:      make(map[stockKey]*model.AffiliateStock),
	}
	for _, a := range affiliates {
		r.affiliates[a.ID] = a
	}
	return r
}

func (r *stubAffiliateRepo) Create(_ context.Context, a *model.Affiliate) error {
	if _, ok := r.affiliates[a.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.affiliates[a.ID] = a
	return nil
}

func (r *stubAffiliateRepo) FindByID(_ context.Context, id string) (*model.Affiliate, error) {
	a, ok := r.affiliates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAffiliateRepo) List(_ context.Context, includeInactive bool) ([]model.Affiliate, error) {
	result := make([]model.Affiliate, 0, len(r.affiliates))
	for _, a := range r.affiliates {
		if a.Active || includeInactive {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *stubAffiliateRepo) Update(_ context.Context, a *model.Affiliate) error {
	r.affiliates[a.ID] = a
	return nil
}

func (r *stubAffiliateRepo) Delete(_ context.Context, id string) error {
	r.deletesOutsideTx++
	delete(r.affiliates, id)
	return nil
}

func (r *stubAffiliateRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.affiliates, id)
	return nil
}

func (r *stubAffiliateRepo) ListStock(_ context.Context, affiliateID string) ([]model.AffiliateStock, error) {
	var result []model.AffiliateStock
	for _, row := range r.stock {
		if row.AffiliateID == affiliateID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *stubAffiliateRepo) FindStockRow(_ context.Context, productID, affiliateID string) (*model.AffiliateStock, error) {
	row, ok := r.stock[stockKey{productID, affiliateID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (r *stubAffiliateRepo) CreateStockRow(_ context.Context, row *model.AffiliateStock) error {
	key := stockKey{row.ProductID, row.AffiliateID}
	if _, ok := r.stock[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.stock[key] = row
	return nil
}

func (r *stubAffiliateRepo) UpdateStockRow(_ context.Context, row *model.AffiliateStock) error {
	r.stock[stockKey{row.ProductID, row.AffiliateID}] = row
	return nil
}

func (r *stubAffiliateRepo) DeleteStockRow(_ context.Context, productID, affiliateID string) error {
	delete(r.stock, stockKey{productID, affiliateID})
	return nil
}

func (r *stubAffiliateRepo) DeleteStockByAffiliateTx(_ *gorm.DB, affiliateID string) error {
	for key, row := range r.stock {
		if row.AffiliateID == affiliateID {
			delete(r.stock, key)
		}
	}
	return nil
}

func (r *stubAffiliateRepo) FindStockRowTx(_ *gorm.DB, productID, affiliateID string) (*model.AffiliateStock, error) {
	return r.FindStockRow(context.Background(), productID, affiliateID)
}

func (r *stubAffiliateRepo) UpdateStockRowTx(_ *gorm.DB, row *model.AffiliateStock) error {
	return r.UpdateStockRow(context.Background(), row)
}

func (r *stubAffiliateRepo) DeleteStockRowTx(_ *gorm.DB, productID, affiliateID string) error {
	return r.DeleteStockRow(context.Background(), productID, affiliateID)
}

func (r *stubAffiliateRepo) DB() *gorm.DB { return nil }

// ── KitRepository stub ───────────────────────────────────────────────────────

// stubKitRepo attaches Product pointers on read, mimicking the Items.Product
// preload of the real repository.
type stubKitRepo struct {
	kits        map[string]*model.Kit
	items       map[string][]model.KitItem
	productRepo *stubProductRepo
}

func newStubKitRepo(productRepo *stubProductRepo) *stubKitRepo {
	return &stubKitRepo{
		kits:        make(map[string]*model.Kit),
		items:       make(map[string][]model.KitItem),
		productRepo: productRepo,
	}
}

func (r *stubKitRepo) FindByID(_ context.Context, id string) (*model.Kit, error) {
	k, ok := r.kits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	kit := *k
	kit.Items = make([]model.KitItem, len(r.items[id]))
	copy(kit.Items, r.items[id])
	for i := range kit.Items {
		if r.productRepo != nil {
			kit.Items[i].Product = r.productRepo.products[kit.Items[i].ProductID]
		}
	}
	return &kit, nil
}

func (r *stubKitRepo) List(_ context.Context) ([]model.Kit, error) {
	result := make([]model.Kit, 0, len(r.kits))
	for id := range r.kits {
		k, _ := r.FindByID(context.Background(), id)
		result = append(result, *k)
	}
	return result, nil
}

func (r *stubKitRepo) CreateHeaderTx(_ *gorm.DB, k *model.Kit) error {
	if _, ok := r.kits[k.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.kits[k.ID] = k
	return nil
}

func (r *stubKitRepo) UpdateHeaderTx(_ *gorm.DB, k *model.Kit) error {
	r.kits[k.ID] = k
	return nil
}

func (r *stubKitRepo) CreateItemTx(_ *gorm.DB, item *model.KitItem) error {
	r.items[item.KitID] = append(r.items[item.KitID], *item)
	return nil
}

func (r *stubKitRepo) DeleteItemsTx(_ *gorm.DB, kitID string) error {
	delete(r.items, kitID)
	return nil
}

func (r *stubKitRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.kits, id)
	return nil
}

func (r *stubKitRepo) DB() *gorm.DB { return nil }

// ── BundleRepository stub ────────────────────────────────────────────────────

type stubBundleRepo struct {
	bundles     map[string]*model.Bundle
	items       map[string][]model.BundleItem
	productRepo *stubProductRepo
}

func newStubBundleRepo(productRepo *stubProductRepo) *stubBundleRepo {
	return &stubBundleRepo{
		bundles:     make(map[string]*model.Bundle),
		items:       make(map[string][]model.BundleItem),
		productRepo: productRepo,
	}
}

func (r *stubBundleRepo) FindByID(_ context.Context, id string) (*model.Bundle, error) {
	b, ok := r.bundles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	bundle := *b
	bundle.Items = make([]model.BundleItem, len(r.items[id]))
	copy(bundle.Items, r.items[id])
	for i := range bundle.Items {
		if r.productRepo != nil {
			bundle.Items[i].Product = r.productRepo.products[bundle.Items[i].ProductID]
		}
	}
	return &bundle, nil
}

func (r *stubBundleRepo) List(_ context.Context) ([]model.Bundle, error) {
	result := make([]model.Bundle, 0, len(r.bundles))
	for id := range r.bundles {
		b, _ := r.FindByID(context.Background(), id)
		result = append(result, *b)
	}
	return result, nil
}

func (r *stubBundleRepo) CreateHeaderTx(_ *gorm.DB, b *model.Bundle) error {
	if _, ok := r.bundles[b.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.bundles[b.ID] = b
	return nil
}

func (r *stubBundleRepo) UpdateHeaderTx(_ *gorm.DB, b *model.Bundle) error {
	r.bundles[b.ID] = b
	return nil
}

func (r *stubBundleRepo) CreateItemTx(_ *gorm.DB, item *model.BundleItem) error {
	r.items[item.BundleID] = append(r.items[item.BundleID], *item)
	return nil
}

func (r *stubBundleRepo) DeleteItemsTx(_ *gorm.DB, bundleID string) error {
	delete(r.items, bundleID)
	return nil
}

func (r *stubBundleRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.bundles, id)
	return nil
}

func (r *stubBundleRepo) DB() *gorm.DB { return nil }

// ── SaleRepository stub ──────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales         map[string]*model.Sale
	items         map[string][]model.SaleItem
	affiliateRepo *stubAffiliateRepo
	nextItemID    uint

	failItemProductIDs map[string]bool // CreateItem fails for these product ids
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:              make(map[string]*model.Sale),
		items:              make(map[string][]model.SaleItem),
		failItemProductIDs: make(map[string]bool),
	}
}

func (r *stubSaleRepo) CreateHeader(_ context.Context, s *model.Sale) error {
	if _, ok := r.sales[s.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) CreateItem(_ context.Context, item *model.SaleItem) error {
	if item.ProductID != nil && r.failItemProductIDs[*item.ProductID] {
		return gorm.ErrInvalidData
	}
	r.nextItemID++
	item.ID = r.nextItemID
	r.items[item.SaleID] = append(r.items[item.SaleID], *item)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id string) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sale := *s
	sale.Items = make([]model.SaleItem, len(r.items[id]))
	copy(sale.Items, r.items[id])
	if sale.AffiliateID != nil && r.affiliateRepo != nil {
		sale.Affiliate = r.affiliateRepo.affiliates[*sale.AffiliateID]
	}
	return &sale, nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id string) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	result := make([]model.Sale, 0, len(r.sales))
	for id := range r.sales {
		s, _ := r.FindByID(context.Background(), id)
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (r *stubSaleRepo) UpdateHeader(_ context.Context, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) UpdateStatus(_ context.Context, id, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DeleteItems(_ context.Context, saleID string) error {
	delete(r.items, saleID)
	return nil
}

func (r *stubSaleRepo) DeleteItemsTx(_ *gorm.DB, saleID string) error {
	delete(r.items, saleID)
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) CountByAffiliate(_ context.Context, affiliateID string) (int64, error) {
	var count int64
	for _, s := range r.sales {
		if s.AffiliateID != nil && *s.AffiliateID == affiliateID {
			count++
		}
	}
	return count, nil
}

func (r *stubSaleRepo) CountLinesByProduct(_ context.Context, productID string) (int64, error) {
	var count int64
	for _, lines := range r.items {
		for _, l := range lines {
			if l.ProductID != nil && *l.ProductID == productID {
				count++
			}
		}
	}
	return count, nil
}

func (r *stubSaleRepo) CountLinesByKit(_ context.Context, kitID string) (int64, error) {
	var count int64
	for _, lines := range r.items {
		for _, l := range lines {
			if l.KitID != nil && *l.KitID == kitID {
				count++
			}
		}
	}
	return count, nil
}

func (r *stubSaleRepo) CountLinesByBundle(_ context.Context, bundleID string) (int64, error) {
	var count int64
	for _, lines := range r.items {
		for _, l := range lines {
			if l.BundleID != nil && *l.BundleID == bundleID {
				count++
			}
		}
	}
	return count, nil
}

func (r *stubSaleRepo) MarkReconciledTx(_ *gorm.DB, id string, at time.Time) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.ReconciledAt = &at
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

// ── Shared helpers ───────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
