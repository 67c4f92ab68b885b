package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verttraue/internal/dto"
	"verttraue/internal/model"
	"verttraue/internal/repository"
	"verttraue/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id string) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*dto.SaleResponse, error)
	Delete(ctx context.Context, id string) error
	Reconcile(ctx context.Context, id string) (*dto.SaleResponse, error)
}

type saleService struct {
	repo          repository.SaleRepository
	productRepo   repository.ProductRepository
	kitRepo       repository.KitRepository
	bundleRepo    repository.BundleRepository
	affiliateRepo repository.AffiliateRepository
	dispatcher    *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	bundleRepo repository.BundleRepository,
	affiliateRepo repository.AffiliateRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:          repo,
		productRepo:   productRepo,
		kitRepo:       kitRepo,
		bundleRepo:    bundleRepo,
		affiliateRepo: affiliateRepo,
		dispatcher:    dispatcher,
	}
}

// resolvedLine is a sale line that passed validation.
type resolvedLine struct {
	productID *string
	kitID     *string
	bundleID  *string
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// Create records the sale header, then inserts each line independently.
// A failing line is logged and skipped without aborting the sale; weaker
// atomicity than the kit/bundle writer, preserved on purpose. A header
// conflict (duplicate id) still fails the whole operation with no lines
// persisted.
func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if req.AffiliateID != nil {
		if _, err := s.affiliateRepo.FindByID(ctx, *req.AffiliateID); err != nil {
			return nil, notFound("affiliate", *req.AffiliateID)
		}
	}

	status := req.Status
	if status == "" {
		status = model.SaleStatusPending
	}

	lines := s.resolveLines(ctx, req.ID, req.Items)

	total := req.Total
	if total.IsZero() {
		for _, l := range lines {
			total = total.Add(l.subtotal)
		}
	}

	sale := model.Sale{
		ID:          req.ID,
		SaleDate:    req.SaleDate,
		Total:       total,
		Status:      status,
		Kind:        req.Kind,
		AffiliateID: req.AffiliateID,
		Notes:       req.Notes,
	}
	if err := s.repo.CreateHeader(ctx, &sale); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: fmt.Sprintf("sale %q already exists", req.ID)}
		}
		return nil, err
	}

	s.insertLines(ctx, sale.ID, lines)

	if s.dispatcher != nil && sale.Status == model.SaleStatusCompleted {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{SaleID: sale.ID})
	}

	return s.Get(ctx, sale.ID)
}

func (s *saleService) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", id)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Update rewrites the header and, when a line list is supplied, fully replaces
// the lines (same lenient per-line policy as Create).
func (s *saleService) Update(ctx context.Context, id string, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", id)
	}

	if req.AffiliateID != nil {
		if _, err := s.affiliateRepo.FindByID(ctx, *req.AffiliateID); err != nil {
			return nil, notFound("affiliate", *req.AffiliateID)
		}
		sale.AffiliateID = req.AffiliateID
	}
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
	}
	if req.Total != nil {
		sale.Total = *req.Total
	}
	if req.Status != nil {
		sale.Status = *req.Status
	}
	if req.Kind != nil {
		sale.Kind = *req.Kind
	}
	if req.Notes != nil {
		sale.Notes = req.Notes
	}

	// Save clears preloaded associations from the header write path
	sale.Affiliate = nil
	if err := s.repo.UpdateHeader(ctx, sale); err != nil {
		return nil, err
	}

	if req.Items != nil {
		if err := s.repo.DeleteItems(ctx, id); err != nil {
			return nil, err
		}
		lines := s.resolveLines(ctx, id, *req.Items)
		s.insertLines(ctx, id, lines)
	}

	return s.Get(ctx, id)
}

func (s *saleService) UpdateStatus(ctx context.Context, id, status string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", id)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	if s.dispatcher != nil && status == model.SaleStatusCompleted && sale.Status != model.SaleStatusCompleted {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{SaleID: id})
	}

	return s.Get(ctx, id)
}

func (s *saleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("sale", id)
	}
	// Lines are owned composition, removed with the header in one tx.
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemsTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// Reconcile is the explicit, separately-invoked stock adjustment for a sale.
// Recording a sale never touches stock; this operation decrements the site
// stock of every referenced product (expanding kits/bundles into components)
// and shrinks the affiliate's allocation rows where present, all inside one
// transaction. A sale can be reconciled once.
func (s *saleService) Reconcile(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", id)
	}
	if sale.ReconciledAt != nil {
		return nil, &ConflictError{Msg: fmt.Sprintf("sale %q already reconciled", id)}
	}

	type stockMove struct {
		productID string
		quantity  int
	}
	var moves []stockMove
	for _, line := range sale.Items {
		switch {
		case line.ProductID != nil:
			moves = append(moves, stockMove{*line.ProductID, line.Quantity})
		case line.KitID != nil:
			kit, err := s.kitRepo.FindByID(ctx, *line.KitID)
			if err != nil {
				log.Warn().Str("sale_id", id).Str("kit_id", *line.KitID).
					Msg("reconcile: kit no longer exists, line skipped")
				continue
			}
			for _, it := range kit.Items {
				moves = append(moves, stockMove{it.ProductID, it.Quantity * line.Quantity})
			}
		case line.BundleID != nil:
			bundle, err := s.bundleRepo.FindByID(ctx, *line.BundleID)
			if err != nil {
				log.Warn().Str("sale_id", id).Str("bundle_id", *line.BundleID).
					Msg("reconcile: bundle no longer exists, line skipped")
				continue
			}
			for _, it := range bundle.Items {
				moves = append(moves, stockMove{it.ProductID, it.Quantity * line.Quantity})
			}
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, mv := range moves {
			if err := s.productRepo.AdjustSiteStockTx(tx, mv.productID, -mv.quantity); err != nil {
				return err
			}
			if sale.AffiliateID == nil {
				continue
			}
			row, err := s.affiliateRepo.FindStockRowTx(tx, mv.productID, *sale.AffiliateID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			remaining := row.Quantity - mv.quantity
			if remaining > 0 {
				row.Quantity = remaining
				if err := s.affiliateRepo.UpdateStockRowTx(tx, row); err != nil {
					return err
				}
			} else if err := s.affiliateRepo.DeleteStockRowTx(tx, mv.productID, *sale.AffiliateID); err != nil {
				return err
			}
		}
		return s.repo.MarkReconciledTx(tx, id, time.Now().UTC())
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, id)
}

// resolveLines validates each supplied line: exactly one reference among
// product/kit/bundle, a positive quantity, a non-negative unit price, and an
// existing referenced entity. Invalid lines are dropped with a warning.
func (s *saleService) resolveLines(ctx context.Context, saleID string, items []dto.SaleItemInput) []resolvedLine {
	lines := make([]resolvedLine, 0, len(items))
	for _, it := range items {
		refs := 0
		for _, ref := range []*string{it.ProductID, it.KitID, it.BundleID} {
			if ref != nil {
				refs++
			}
		}

		var reason string
		switch {
		case refs != 1:
			reason = "line must reference exactly one of product, kit, bundle"
		case it.Quantity < 1:
			reason = "quantity must be a positive integer"
		case it.UnitPrice.IsNegative():
			reason = "unit price must not be negative"
		}
		if reason == "" {
			switch {
			case it.ProductID != nil:
				if _, err := s.productRepo.FindByID(ctx, *it.ProductID); err != nil {
					reason = "product does not exist"
				}
			case it.KitID != nil:
				if _, err := s.kitRepo.FindByID(ctx, *it.KitID); err != nil {
					reason = "kit does not exist"
				}
			case it.BundleID != nil:
				if _, err := s.bundleRepo.FindByID(ctx, *it.BundleID); err != nil {
					reason = "bundle does not exist"
				}
			}
		}
		if reason != "" {
			log.Warn().
				Str("sale_id", saleID).
				Interface("line", it).
				Msg("skipping invalid sale line: " + reason)
			continue
		}

		lines = append(lines, resolvedLine{
			productID: it.ProductID,
			kitID:     it.KitID,
			bundleID:  it.BundleID,
			quantity:  it.Quantity,
			unitPrice: it.UnitPrice,
			subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return lines
}

// insertLines writes each line on its own; an insert failure is logged and
// swallowed so the remaining lines still land.
func (s *saleService) insertLines(ctx context.Context, saleID string, lines []resolvedLine) {
	for _, l := range lines {
		item := model.SaleItem{
			SaleID:    saleID,
			ProductID: l.productID,
			KitID:     l.kitID,
			BundleID:  l.bundleID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
			Subtotal:  l.subtotal,
		}
		if err := s.repo.CreateItem(ctx, &item); err != nil {
			log.Error().Err(err).Str("sale_id", saleID).Msg("failed to insert sale line, skipped")
		}
	}
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		name := ""
		switch {
		case it.Product != nil:
			name = it.Product.Name
		case it.Kit != nil:
			name = it.Kit.Name
		case it.Bundle != nil:
			name = it.Bundle.Name
		}
		items = append(items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			KitID:     it.KitID,
			BundleID:  it.BundleID,
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	resp := &dto.SaleResponse{
		ID:          v.ID,
		SaleDate:    v.SaleDate.Format(time.RFC3339),
		Total:       v.Total,
		Status:      v.Status,
		Kind:        v.Kind,
		AffiliateID: v.AffiliateID,
		Notes:       v.Notes,
		Reconciled:  v.ReconciledAt != nil,
		Items:       items,
	}
	if v.Affiliate != nil {
		resp.AffiliateName = &v.Affiliate.FullName
	}
	return resp
}
