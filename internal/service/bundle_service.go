package service

import (
	"context"
	"errors"
	"fmt"

	"verttraue/internal/dto"
	"verttraue/internal/model"
	"verttraue/internal/repository"

	"gorm.io/gorm"
)

// BundleService mirrors KitService: same composite write contract, same
// lenient component policy, different domain label.
type BundleService interface {
	Create(ctx context.Context, req dto.CreateCompositeRequest) (*dto.CompositeResponse, error)
	Get(ctx context.Context, id string) (*dto.CompositeResponse, error)
	List(ctx context.Context) ([]dto.CompositeResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateCompositeRequest) (*dto.CompositeResponse, error)
	Delete(ctx context.Context, id string) error
}

type bundleService struct {
	repo        repository.BundleRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

func NewBundleService(repo repository.BundleRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) BundleService {
	return &bundleService{repo: repo, productRepo: productRepo, saleRepo: saleRepo}
}

func (s *bundleService) Create(ctx context.Context, req dto.CreateCompositeRequest) (*dto.CompositeResponse, error) {
	components, err := s.resolveComponents(ctx, req.ID, req.Items)
	if err != nil {
		return nil, err
	}

	bundle := model.Bundle{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateHeaderTx(tx, &bundle); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Msg: fmt.Sprintf("bundle %q already exists", req.ID)}
			}
			return err
		}
		for _, c := range components {
			item := model.BundleItem{BundleID: bundle.ID, ProductID: c.ProductID, Quantity: c.Quantity}
			if err := s.repo.CreateItemTx(tx, &item); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, bundle.ID)
}

func (s *bundleService) Get(ctx context.Context, id string) (*dto.CompositeResponse, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("bundle", id)
	}
	return bundleToResponse(bundle), nil
}

func (s *bundleService) List(ctx context.Context) ([]dto.CompositeResponse, error) {
	bundles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CompositeResponse, 0, len(bundles))
	for i := range bundles {
		result = append(result, *bundleToResponse(&bundles[i]))
	}
	return result, nil
}

func (s *bundleService) Update(ctx context.Context, id string, req dto.UpdateCompositeRequest) (*dto.CompositeResponse, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("bundle", id)
	}

	if req.Name != nil {
		bundle.Name = *req.Name
	}
	if req.Description != nil {
		bundle.Description = req.Description
	}
	if req.Price != nil {
		bundle.Price = *req.Price
	}

	var components []component
	if req.Items != nil {
		components, err = s.resolveComponents(ctx, id, *req.Items)
		if err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := repository.AdvisoryLockTx(tx, "bundle:"+id); err != nil {
			return err
		}
		if err := s.repo.UpdateHeaderTx(tx, bundle); err != nil {
			return err
		}
		if req.Items != nil {
			if err := s.repo.DeleteItemsTx(tx, id); err != nil {
				return err
			}
			for _, c := range components {
				item := model.BundleItem{BundleID: id, ProductID: c.ProductID, Quantity: c.Quantity}
				if err := s.repo.CreateItemTx(tx, &item); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, id)
}

func (s *bundleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("bundle", id)
	}

	count, err := s.saleRepo.CountLinesByBundle(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{
			Msg:   fmt.Sprintf("bundle %q is referenced by %d sale line(s)", id, count),
			Count: count,
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemsTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *bundleService) resolveComponents(ctx context.Context, bundleID string, items []dto.CompositeItemInput) ([]component, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return filterComponents("bundle", bundleID, items, products, lenientItems)
}

func bundleToResponse(b *model.Bundle) *dto.CompositeResponse {
	items := make([]dto.CompositeItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		item := dto.CompositeItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
			item.SiteStock = it.Product.SiteStock
			item.SalePrice = it.Product.SalePrice
		}
		items = append(items, item)
	}
	return &dto.CompositeResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		Price:          b.Price,
		AvailableStock: bundleAvailableStock(b.Items),
		Items:          items,
	}
}
