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

type KitService interface {
	Create(ctx context.Context, req dto.CreateCompositeRequest) (*dto.CompositeResponse, error)
	Get(ctx context.Context, id string) (*dto.CompositeResponse, error)
	List(ctx context.Context) ([]dto.CompositeResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateCompositeRequest) (*dto.CompositeResponse, error)
	Delete(ctx context.Context, id string) error
}

type kitService struct {
	repo        repository.KitRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

func NewKitService(repo repository.KitRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) KitService {
	return &kitService{repo: repo, productRepo: productRepo, saleRepo: saleRepo}
}

// Create persists the kit header plus its valid components as one atomic unit.
// Components failing validation are skipped with a warning (lenient policy);
// a header conflict (duplicate id) rolls back the entire operation.
func (s *kitService) Create(ctx context.Context, req dto.CreateCompositeRequest) (*dto.CompositeResponse, error) {
	components, err := s.resolveComponents(ctx, req.ID, req.Items)
	if err != nil {
		return nil, err
	}

	kit := model.Kit{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateHeaderTx(tx, &kit); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Msg: fmt.Sprintf("kit %q already exists", req.ID)}
			}
			return err
		}
		for _, c := range components {
			item := model.KitItem{KitID: kit.ID, ProductID: c.ProductID, Quantity: c.Quantity}
			if err := s.repo.CreateItemTx(tx, &item); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, kit.ID)
}

func (s *kitService) Get(ctx context.Context, id string) (*dto.CompositeResponse, error) {
	kit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("kit", id)
	}
	return kitToResponse(kit), nil
}

func (s *kitService) List(ctx context.Context) ([]dto.CompositeResponse, error) {
	kits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CompositeResponse, 0, len(kits))
	for i := range kits {
		result = append(result, *kitToResponse(&kits[i]))
	}
	return result, nil
}

// Update replaces the header fields and, when a component list is supplied,
// fully replaces the component rows (delete-then-reinsert). The per-parent
// advisory lock serializes concurrent replacements on the same kit.
func (s *kitService) Update(ctx context.Context, id string, req dto.UpdateCompositeRequest) (*dto.CompositeResponse, error) {
	kit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("kit", id)
	}

	if req.Name != nil {
		kit.Name = *req.Name
	}
	if req.Description != nil {
		kit.Description = req.Description
	}
	if req.Price != nil {
		kit.Price = *req.Price
	}

	var components []component
	if req.Items != nil {
		components, err = s.resolveComponents(ctx, id, *req.Items)
		if err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := repository.AdvisoryLockTx(tx, "kit:"+id); err != nil {
			return err
		}
		if err := s.repo.UpdateHeaderTx(tx, kit); err != nil {
			return err
		}
		if req.Items != nil {
			if err := s.repo.DeleteItemsTx(tx, id); err != nil {
				return err
			}
			for _, c := range components {
				item := model.KitItem{KitID: id, ProductID: c.ProductID, Quantity: c.Quantity}
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

// Delete removes the kit. Component rows are owned composition and go first;
// the delete is blocked when sale lines reference the kit.
func (s *kitService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("kit", id)
	}

	count, err := s.saleRepo.CountLinesByKit(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{
			Msg:   fmt.Sprintf("kit %q is referenced by %d sale line(s)", id, count),
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

func (s *kitService) resolveComponents(ctx context.Context, kitID string, items []dto.CompositeItemInput) ([]component, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return filterComponents("kit", kitID, items, products, lenientItems)
}

func kitToResponse(k *model.Kit) *dto.CompositeResponse {
	items := make([]dto.CompositeItemResponse, 0, len(k.Items))
	for _, it := range k.Items {
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
		ID:             k.ID,
		Name:           k.Name,
		Description:    k.Description,
		Price:          k.Price,
		AvailableStock: kitAvailableStock(k.Items),
		Items:          items,
	}
}
