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

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id string) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id string) error
	ListProducts(ctx context.Context, id string) ([]dto.ProductResponse, error)
}

type supplierService struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
}

func NewSupplierService(repo repository.SupplierRepository, productRepo repository.ProductRepository) SupplierService {
	return &supplierService{repo: repo, productRepo: productRepo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := model.Supplier{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Site:  req.Site,
	}
	if err := s.repo.Create(ctx, &sup); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: fmt.Sprintf("supplier %q already exists", req.ID)}
		}
		return nil, err
	}
	return supplierToResponse(&sup, 0), nil
}

func (s *supplierService) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("supplier", id)
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(sup, count), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		count, err := s.repo.CountProducts(ctx, suppliers[i].ID)
		if err != nil {
			return nil, err
		}
		result = append(result, *supplierToResponse(&suppliers[i], count))
	}
	return result, nil
}

func (s *supplierService) Update(ctx context.Context, id string, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("supplier", id)
	}

	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.Email != nil {
		sup.Email = req.Email
	}
	if req.Phone != nil {
		sup.Phone = req.Phone
	}
	if req.Site != nil {
		sup.Site = req.Site
	}

	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(sup, count), nil
}

// Delete refuses while any product still references the supplier, reporting
// how many do.
func (s *supplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("supplier", id)
	}

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{
			Msg:   fmt.Sprintf("supplier %q is referenced by %d product(s)", id, count),
			Count: count,
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *supplierService) ListProducts(ctx context.Context, id string) ([]dto.ProductResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("supplier", id)
	}
	products, err := s.productRepo.FindBySupplierID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp := productToResponse(&products[i])
		resp.SupplierName = &sup.Name
		result = append(result, *resp)
	}
	return result, nil
}

func supplierToResponse(s *model.Supplier, productCount int64) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Site:         s.Site,
		ProductCount: productCount,
	}
}
