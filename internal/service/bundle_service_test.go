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

func newBundleFixture() (*stubBundleRepo, *stubSaleRepo, BundleService) {
	productRepo := newStubProductRepo(
		&model.Product{ID: "p1", Name: "Shampoo", SiteStock: 12, SalePrice: decimal.NewFromInt(18)},
		&model.Product{ID: "p2", Name: "Conditioner", SiteStock: 4, SalePrice: decimal.NewFromInt(20)},
	)
	bundleRepo := newStubBundleRepo(productRepo)
	saleRepo := newStubSaleRepo()
	svc := NewBundleService(bundleRepo, productRepo, saleRepo)
	return bundleRepo, saleRepo, svc
}

func TestBundleCreateSkipsInvalidComponents(t *testing.T) {
	bundleRepo, _, svc := newBundleFixture()

	resp, err := svc.Create(context.Background(), dto.CreateCompositeRequest{
		ID: "b1", Name: "Hair Duo", Price: decimal.NewFromInt(35),
		Items: []dto.CompositeItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 0}, // skipped
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Len(t, bundleRepo.items["b1"], 1)
	// floor(12/2) = 6
	assert.Equal(t, 6, resp.AvailableStock)
}

func TestBundleUpdateReplacesComponents(t *testing.T) {
	_, _, svc := newBundleFixture()

	_, err := svc.Create(context.Background(), dto.CreateCompositeRequest{
		ID: "b1", Name: "Hair Duo", Price: decimal.NewFromInt(35),
		Items: []dto.CompositeItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	replacement := []dto.CompositeItemInput{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}
	resp, err := svc.Update(context.Background(), "b1", dto.UpdateCompositeRequest{Items: &replacement})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	// min(12/1, 4/1) = 4
	assert.Equal(t, 4, resp.AvailableStock)
}

func TestBundleDeleteBlockedBySaleLines(t *testing.T) {
	bundleRepo, saleRepo, svc := newBundleFixture()

	_, err := svc.Create(context.Background(), dto.CreateCompositeRequest{
		ID: "b1", Name: "Hair Duo", Price: decimal.NewFromInt(35),
	})
	require.NoError(t, err)

	saleRepo.items["s1"] = []model.SaleItem{
		{SaleID: "s1", BundleID: strPtr("b1"), Quantity: 1},
		{SaleID: "s1", BundleID: strPtr("b1"), Quantity: 2},
	}

	err = svc.Delete(context.Background(), "b1")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(2), conflict.Count)
	_, stillThere := bundleRepo.bundles["b1"]
	assert.True(t, stillThere)
}

func TestBundleCreateDuplicateIDConflicts(t *testing.T) {
	_, _, svc := newBundleFixture()

	_, err := svc.Create(context.Background(), dto.CreateCompositeRequest{
		ID: "b1", Name: "First", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateCompositeRequest{
		ID: "b1", Name: "Second", Price: decimal.NewFromInt(10),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}
