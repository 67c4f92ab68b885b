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

type AffiliateService interface {
	Create(ctx context.Context, req dto.CreateAffiliateRequest) (*dto.AffiliateResponse, error)
	Get(ctx context.Context, id string) (*dto.AffiliateResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.AffiliateResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateAffiliateRequest) (*dto.AffiliateResponse, error)
	Delete(ctx context.Context, id string) error

	ListStock(ctx context.Context, affiliateID string) ([]dto.AffiliateStockResponse, error)
	SetStock(ctx context.Context, affiliateID string, req dto.SetAffiliateStockRequest) (*dto.AffiliateStockResponse, error)
}

type affiliateService struct {
	repo        repository.AffiliateRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

func NewAffiliateService(repo repository.AffiliateRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) AffiliateService {
	return &affiliateService{repo: repo, productRepo: productRepo, saleRepo: saleRepo}
}

func (s *affiliateService) Create(ctx context.Context, req dto.CreateAffiliateRequest) (*dto.AffiliateResponse, error) {
	a := model.Affiliate{
		ID:            req.ID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		CommissionPct: req.CommissionPct,
		PayoutKey:     req.PayoutKey,
		PayoutKeyType: req.PayoutKeyType,
		Active:        true,
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: fmt.Sprintf("affiliate %q already exists", req.ID)}
		}
		return nil, err
	}
	return affiliateToResponse(&a), nil
}

func (s *affiliateService) Get(ctx context.Context, id string) (*dto.AffiliateResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("affiliate", id)
	}
	return affiliateToResponse(a), nil
}

func (s *affiliateService) List(ctx context.Context, includeInactive bool) ([]dto.AffiliateResponse, error) {
	affiliates, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AffiliateResponse, 0, len(affiliates))
	for i := range affiliates {
		result = append(result, *affiliateToResponse(&affiliates[i]))
	}
	return result, nil
}

func (s *affiliateService) Update(ctx context.Context, id string, req dto.UpdateAffiliateRequest) (*dto.AffiliateResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("affiliate", id)
	}

	if req.FullName != nil {
		a.FullName = *req.FullName
	}
	if req.Email != nil {
		a.Email = req.Email
	}
	if req.Phone != nil {
		a.Phone = req.Phone
	}
	if req.CommissionPct != nil {
		a.CommissionPct = *req.CommissionPct
	}
	if req.PayoutKey != nil {
		a.PayoutKey = req.PayoutKey
	}
	if req.PayoutKeyType != nil {
		a.PayoutKeyType = req.PayoutKeyType
	}
	if req.Active != nil {
		a.Active = *req.Active
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return affiliateToResponse(a), nil
}

// Delete is blocked while sales reference the affiliate. Allocation rows are
// owned by the affiliate and removed first.
func (s *affiliateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("affiliate", id)
	}

	count, err := s.saleRepo.CountByAffiliate(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{
			Msg:   fmt.Sprintf("affiliate %q is referenced by %d sale(s)", id, count),
			Count: count,
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteStockByAffiliateTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *affiliateService) ListStock(ctx context.Context, affiliateID string) ([]dto.AffiliateStockResponse, error) {
	if _, err := s.repo.FindByID(ctx, affiliateID); err != nil {
		return nil, notFound("affiliate", affiliateID)
	}
	rows, err := s.repo.ListStock(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AffiliateStockResponse, 0, len(rows))
	for _, row := range rows {
		item := dto.AffiliateStockResponse{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			item.ProductName = row.Product.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// SetStock records an absolute allocation for (product, affiliate).
// This is a set, not an increment: quantity > 0 overwrites or creates the
// single allocation row, quantity == 0 deletes it (or no-ops when there is
// nothing to delete). Product stock counters are untouched; site-stock
// bookkeeping and "who holds inventory" bookkeeping stay decoupled.
func (s *affiliateService) SetStock(ctx context.Context, affiliateID string, req dto.SetAffiliateStockRequest) (*dto.AffiliateStockResponse, error) {
	if _, err := s.repo.FindByID(ctx, affiliateID); err != nil {
		return nil, notFound("affiliate", affiliateID)
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, notFound("product", req.ProductID)
	}

	row, err := s.repo.FindStockRow(ctx, req.ProductID, affiliateID)
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity == 0 {
			return nil, nil // nothing to create or remove
		}
		row = &model.AffiliateStock{
			ProductID:   req.ProductID,
			AffiliateID: affiliateID,
			Quantity:    req.Quantity,
		}
		if err := s.repo.CreateStockRow(ctx, row); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case req.Quantity == 0:
		if err := s.repo.DeleteStockRow(ctx, req.ProductID, affiliateID); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		row.Quantity = req.Quantity
		if err := s.repo.UpdateStockRow(ctx, row); err != nil {
			return nil, err
		}
	}

	return &dto.AffiliateStockResponse{
		ProductID:   req.ProductID,
		ProductName: product.Name,
		Quantity:    row.Quantity,
	}, nil
}

func affiliateToResponse(a *model.Affiliate) *dto.AffiliateResponse {
	return &dto.AffiliateResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		CommissionPct: a.CommissionPct,
		PayoutKey:     a.PayoutKey,
		PayoutKeyType: a.PayoutKeyType,
		Active:        a.Active,
	}
}
