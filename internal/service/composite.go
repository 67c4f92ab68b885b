package service

import (
	"verttraue/internal/dto"
	"verttraue/internal/model"

	"github.com/rs/zerolog/log"
)

// itemPolicy controls how bulk child inserts treat an individual bad item.
// Kits, bundles and sale lines all run lenient: one bad child is skipped with
// a warning instead of failing the whole write. Header conflicts still abort
// everything; the asymmetry is deliberate.
type itemPolicy int

const (
	lenientItems itemPolicy = iota
	strictItems
)

// component is a validated (product, required quantity) pair admitted into a
// composite write.
type component struct {
	ProductID string
	Quantity  int
}

// filterComponents validates the supplied child list against the product
// catalog. Under lenientItems invalid entries (non-positive quantity, unknown
// product, duplicate product) are dropped with a warning; under strictItems
// the first invalid entry fails the operation.
func filterComponents(entity, parentID string, items []dto.CompositeItemInput, products map[string]*model.Product, policy itemPolicy) ([]component, error) {
	valid := make([]component, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		var reason string
		switch {
		case it.Quantity < 1:
			reason = "quantity must be a positive integer"
		case products[it.ProductID] == nil:
			reason = "product does not exist"
		case seen[it.ProductID]:
			reason = "duplicate product in item list"
		}
		if reason != "" {
			if policy == strictItems {
				return nil, &ValidationError{Msg: "item " + it.ProductID + ": " + reason}
			}
			log.Warn().
				Str("entity", entity).
				Str("parent_id", parentID).
				Str("product_id", it.ProductID).
				Int("quantity", it.Quantity).
				Msg("skipping invalid component: " + reason)
			continue
		}
		seen[it.ProductID] = true
		valid = append(valid, component{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return valid, nil
}

// stockComponent is one required component of a kit or bundle as seen by the
// available-stock calculator. A missing product is represented by SiteStock 0.
type stockComponent struct {
	SiteStock int
	Required  int
}

// availableStock computes how many complete units are assemblable right now:
// min over components of floor(site_stock / required). An empty component list
// yields 0: an empty component set means nothing is available, not an error.
func availableStock(components []stockComponent) int {
	if len(components) == 0 {
		return 0
	}
	best := -1
	for _, c := range components {
		if c.Required < 1 {
			// Rows are validated on write; treat malformed data as unassemblable.
			return 0
		}
		n := c.SiteStock / c.Required
		if best == -1 || n < best {
			best = n
		}
	}
	if best < 0 {
		best = 0
	}
	return best
}

func kitAvailableStock(items []model.KitItem) int {
	components := make([]stockComponent, 0, len(items))
	for _, it := range items {
		c := stockComponent{Required: it.Quantity}
		if it.Product != nil {
			c.SiteStock = it.Product.SiteStock
		}
		components = append(components, c)
	}
	return availableStock(components)
}

func bundleAvailableStock(items []model.BundleItem) int {
	components := make([]stockComponent, 0, len(items))
	for _, it := range items {
		c := stockComponent{Required: it.Quantity}
		if it.Product != nil {
			c.SiteStock = it.Product.SiteStock
		}
		components = append(components, c)
	}
	return availableStock(components)
}
