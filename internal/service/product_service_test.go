package service

import (
	"context"
	"testing"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture() (*stubProductRepo, *stubSaleRepo, ProductService) {
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	saleRepo := newStubSaleRepo()
	svc := NewProductService(productRepo, supplierRepo, saleRepo)
	return productRepo, saleRepo, svc
}

func TestProductCreate(t *testing.T) {
	_, _, svc := newProductFixture()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		ID:         "p1",
		Name:       "Soap",
		SiteStock:  10,
		SalePrice:  decimal.NewFromInt(12),
		SupplierID: strPtr("f1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", resp.ID)
	assert.Equal(t, 10, resp.SiteStock)
}

func TestProductCreateUnknownSupplier(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		ID: "p1", Name: "Soap", SupplierID: strPtr("ghost"),
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "supplier", nf.Entity)
}

func TestProductCreateDuplicateIDConflicts(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{ID: "p1", Name: "Soap"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.CreateProductRequest{ID: "p1", Name: "Other"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestProductAdjustStockSetsAbsoluteValues(t *testing.T) {
	productRepo, _, svc := newProductFixture()
	productRepo.products["p1"] = &model.Product{ID: "p1", Name: "Soap", SiteStock: 10, PhysicalStock: 7}

	resp, err := svc.AdjustStock(context.Background(), "p1", dto.AdjustStockRequest{
		SiteStock: intPtr(3),
	})
	require.NoError(t, err)
	// site counter overwritten, physical untouched
	assert.Equal(t, 3, resp.SiteStock)
	assert.Equal(t, 7, resp.PhysicalStock)
}

func TestProductDeleteBlockedBySaleLines(t *testing.T) {
	productRepo, saleRepo, svc := newProductFixture()
	productRepo.products["p1"] = &model.Product{ID: "p1", Name: "Soap"}
	saleRepo.items["s1"] = []model.SaleItem{{SaleID: "s1", ProductID: strPtr("p1"), Quantity: 2}}

	err := svc.Delete(context.Background(), "p1")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(1), conflict.Count)
}

func TestProductDeleteRemovesPhotosFirst(t *testing.T) {
	productRepo, _, svc := newProductFixture()
	productRepo.products["p1"] = &model.Product{
		ID: "p1", Name: "Soap",
		Photos: []model.ProductPhoto{{ID: 1, ProductID: "p1", URL: "https://img/1.jpg"}},
	}

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Empty(t, productRepo.products)
}

// Photos and the product row are removed in one transaction; neither write
// goes through the base connection.
func TestProductDeleteUsesSingleTransaction(t *testing.T) {
	productRepo, _, svc := newProductFixture()
	productRepo.products["p1"] = &model.Product{
		ID: "p1", Name: "Soap",
		Photos: []model.ProductPhoto{{ID: 1, ProductID: "p1", URL: "https://img/1.jpg"}},
	}

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Zero(t, productRepo.deletesOutsideTx)
	assert.Empty(t, productRepo.products)
}

func TestProductPhotoLifecycle(t *testing.T) {
	productRepo, _, svc := newProductFixture()
	productRepo.products["p1"] = &model.Product{ID: "p1", Name: "Soap"}

	resp, err := svc.AddPhoto(context.Background(), "p1", dto.AddPhotoRequest{URL: "https://img/1.jpg"})
	require.NoError(t, err)
	require.Len(t, resp.Photos, 1)

	require.NoError(t, svc.DeletePhoto(context.Background(), "p1", resp.Photos[0].ID))

	err = svc.DeletePhoto(context.Background(), "p1", 99)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
