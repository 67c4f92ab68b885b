package service

import (
	"context"
	"testing"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierDeleteBlockedByProducts(t *testing.T) {
	productRepo := newStubProductRepo(
		&model.Product{ID: "p1", Name: "Soap", SupplierID: strPtr("f1")},
		&model.Product{ID: "p2", Name: "Towel", SupplierID: strPtr("f1")},
	)
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	svc := NewSupplierService(supplierRepo, productRepo)

	err := svc.Delete(context.Background(), "f1")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(2), conflict.Count)
	_, stillThere := supplierRepo.suppliers["f1"]
	assert.True(t, stillThere)
}

func TestSupplierDeleteUnreferenced(t *testing.T) {
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	svc := NewSupplierService(supplierRepo, productRepo)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.Empty(t, supplierRepo.suppliers)
}

func TestSupplierCreateDuplicateIDConflicts(t *testing.T) {
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	svc := NewSupplierService(supplierRepo, productRepo)

	_, err := svc.Create(context.Background(), dto.CreateSupplierRequest{ID: "f1", Name: "Other"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestSupplierGetReportsProductCount(t *testing.T) {
	productRepo := newStubProductRepo(
		&model.Product{ID: "p1", Name: "Soap", SupplierID: strPtr("f1")},
	)
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	svc := NewSupplierService(supplierRepo, productRepo)

	resp, err := svc.Get(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ProductCount)
}

func TestSupplierListProductsInlinesName(t *testing.T) {
	productRepo := newStubProductRepo(
		&model.Product{ID: "p1", Name: "Soap", SupplierID: strPtr("f1")},
	)
	supplierRepo := newStubSupplierRepo(productRepo, &model.Supplier{ID: "f1", Name: "Acme"})
	svc := NewSupplierService(supplierRepo, productRepo)

	products, err := svc.ListProducts(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].SupplierName)
	assert.Equal(t, "Acme", *products[0].SupplierName)
}
