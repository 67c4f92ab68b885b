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

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error

	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	AddPhoto(ctx context.Context, id string, req dto.AddPhotoRequest) (*dto.ProductResponse, error)
	DeletePhoto(ctx context.Context, id string, photoID uint) error
}

type productService struct {
	repo         repository.ProductRepository
	supplierRepo repository.SupplierRepository
	saleRepo     repository.SaleRepository
}

func NewProductService(repo repository.ProductRepository, supplierRepo repository.SupplierRepository, saleRepo repository.SaleRepository) ProductService {
	return &productService{repo: repo, supplierRepo: supplierRepo, saleRepo: saleRepo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, notFound("supplier", *req.SupplierID)
		}
	}

	p := model.Product{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		PhysicalStock: req.PhysicalStock,
		SiteStock:     req.SiteStock,
		SalePrice:     req.SalePrice,
		PurchasePrice: req.PurchasePrice,
		SupplierID:    req.SupplierID,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: fmt.Sprintf("product %q already exists", req.ID)}
		}
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id)
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, notFound("supplier", *req.SupplierID)
		}
		p.SupplierID = req.SupplierID
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PhysicalStock != nil {
		p.PhysicalStock = *req.PhysicalStock
	}
	if req.SiteStock != nil {
		p.SiteStock = *req.SiteStock
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}

	// Save clears preloaded associations from the update path
	p.Supplier = nil
	p.Photos = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the product unless sale lines reference it. Photos are an
// owned sub-resource and never block, so they go first.
func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("product", id)
	}

	count, err := s.saleRepo.CountLinesByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{
			Msg:   fmt.Sprintf("product %q is referenced by %d sale line(s)", id, count),
			Count: count,
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeletePhotosTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// AdjustStock sets the counters to the supplied absolute values. The two
// counters are independent; neither is derived from the other.
func (s *productService) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound("product", id)
	}
	if err := s.repo.SetStock(ctx, id, req.SiteStock, req.PhysicalStock); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) AddPhoto(ctx context.Context, id string, req dto.AddPhotoRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound("product", id)
	}
	photo := model.ProductPhoto{ProductID: id, URL: req.URL}
	if err := s.repo.AddPhoto(ctx, &photo); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) DeletePhoto(ctx context.Context, id string, photoID uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("product", id)
	}
	if err := s.repo.DeletePhoto(ctx, id, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("photo", fmt.Sprintf("%d", photoID))
		}
		return err
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	photos := make([]dto.PhotoResponse, 0, len(p.Photos))
	for _, ph := range p.Photos {
		photos = append(photos, dto.PhotoResponse{ID: ph.ID, URL: ph.URL})
	}
	resp := &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PhysicalStock: p.PhysicalStock,
		SiteStock:     p.SiteStock,
		SalePrice:     p.SalePrice,
		PurchasePrice: p.PurchasePrice,
		SupplierID:    p.SupplierID,
		Photos:        photos,
	}
	if p.Supplier != nil {
		resp.SupplierName = &p.Supplier.Name
	}
	return resp
}
