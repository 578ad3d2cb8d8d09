package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"madeh-desk/internal/domain"
	"madeh-desk/internal/repository"

	"github.com/google/uuid"
)

// Validation failures of the sale recording workflow. Each violated
// precondition maps to its own sentinel and is reported before any
// write is attempted.
var (
	ErrNoStaffProfile      = errors.New("no staff profile linked to this account")
	ErrSaleProductNotFound = errors.New("product for sale not found")
	ErrInvalidQuantity     = errors.New("sale quantity must be a positive integer")
	ErrInsufficientStock   = errors.New("insufficient stock for requested quantity")
	ErrPriceBelowCost      = errors.New("unit price is below the product's buying price")
)

// IsInvalidInput reports whether err is a precondition failure of the
// sale recording workflow, as opposed to an authorization refusal or a
// storage error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrSaleProductNotFound) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrPriceBelowCost)
}

// RecordSaleInput is one candidate retail transaction.
type RecordSaleInput struct {
	ProductID    uuid.UUID
	Quantity     int
	UnitPrice    float64
	CustomerName string
}

// SalesService validates and persists retail transactions.
type SalesService interface {
	RecordSale(ctx context.Context, actor *domain.AuthUser, input RecordSaleInput) (*domain.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleFilter) ([]*domain.Sale, error)
}

type salesService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

// NewSalesService creates a new instance of SalesService
func NewSalesService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) SalesService {
	return &salesService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// RecordSale checks every precondition of the transaction, then inserts
// the sale and decrements the product's stock atomically. The sale
// snapshots the product name and the negotiated unit price so later
// catalog edits cannot change recorded history. On failure nothing is
// written; there is no partially recorded sale to reconcile.
func (s *salesService) RecordSale(ctx context.Context, actor *domain.AuthUser, input RecordSaleInput) (*domain.Sale, error) {
	if actor == nil || !actor.HasStaffProfile() {
		return nil, ErrNoStaffProfile
	}

	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, ErrSaleProductNotFound
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	if input.Quantity > product.Quantity {
		return nil, ErrInsufficientStock
	}

	// No below-cost sales, negotiated or otherwise.
	if input.UnitPrice < product.BuyingPrice {
		return nil, ErrPriceBelowCost
	}

	now := time.Now()
	sale := &domain.Sale{
		ID:           uuid.New(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		StaffID:      *actor.StaffID,
		CustomerName: input.CustomerName,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		TotalAmount:  float64(input.Quantity) * input.UnitPrice,
		SoldAt:       now,
		CreatedAt:    now,
	}

	if err := s.saleRepo.CreateWithStockDecrement(ctx, sale); err != nil {
		// A concurrent sale may have consumed the stock after our check.
		if err == repository.ErrInsufficientStock {
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	return sale, nil
}

// ListSales returns a snapshot of recorded sales, optionally bounded to
// a time range.
func (s *salesService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
