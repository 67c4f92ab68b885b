package service

import (
	"testing"

	"verttraue/internal/dto"
	"verttraue/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableStock(t *testing.T) {
	t.Run("empty component list yields zero", func(t *testing.T) {
		assert.Equal(t, 0, availableStock(nil))
		assert.Equal(t, 0, availableStock([]stockComponent{}))
	})

	t.Run("single component floors the division", func(t *testing.T) {
		assert.Equal(t, 13, availableStock([]stockComponent{{SiteStock: 40, Required: 3}}))
	})

	t.Run("scarcest component bounds the result", func(t *testing.T) {
		got := availableStock([]stockComponent{
			{SiteStock: 40, Required: 3}, // 13
			{SiteStock: 5, Required: 3},  // 1
			{SiteStock: 100, Required: 1},
		})
		assert.Equal(t, 1, got)
	})

	t.Run("component with zero stock zeroes everything", func(t *testing.T) {
		got := availableStock([]stockComponent{
			{SiteStock: 50, Required: 1},
			{SiteStock: 0, Required: 2},
		})
		assert.Equal(t, 0, got)
	})

	t.Run("malformed required quantity yields zero", func(t *testing.T) {
		assert.Equal(t, 0, availableStock([]stockComponent{{SiteStock: 10, Required: 0}}))
	})
}

func TestKitAvailableStockMissingProduct(t *testing.T) {
	// A component whose product was deleted behaves as zero stock.
	items := []model.KitItem{
		{ProductID: "p1", Quantity: 1, Product: &model.Product{ID: "p1", SiteStock: 9}},
		{ProductID: "gone", Quantity: 1, Product: nil},
	}
	assert.Equal(t, 0, kitAvailableStock(items))
}

func TestFilterComponentsLenient(t *testing.T) {
	products := map[string]*model.Product{
		"p1": {ID: "p1"},
		"p2": {ID: "p2"},
	}
	items := []dto.CompositeItemInput{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 0},       // non-positive quantity
		{ProductID: "missing", Quantity: 1},  // unknown product
		{ProductID: "p1", Quantity: 5},       // duplicate
		{ProductID: "p2", Quantity: 3},
	}

	got, err := filterComponents("kit", "k1", items, products, lenientItems)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, component{ProductID: "p1", Quantity: 2}, got[0])
	assert.Equal(t, component{ProductID: "p2", Quantity: 3}, got[1])
}

func TestFilterComponentsStrict(t *testing.T) {
	products := map[string]*model.Product{"p1": {ID: "p1"}}
	items := []dto.CompositeItemInput{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "nope", Quantity: 1},
	}

	_, err := filterComponents("kit", "k1", items, products, strictItems)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
