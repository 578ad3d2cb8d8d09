package repository

import (
	"context"
	"testing"
	"time"

	"madeh-desk/internal/domain"

	"github.com/google/uuid"
)

func seedTestProduct(t *testing.T, repo ProductRepository, quantity int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:                uuid.New(),
		Name:              "Test Hammer",
		Category:          "Tools",
		Quantity:          quantity,
		BuyingPrice:       50,
		Price:             80,
		LowStockThreshold: 5,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func buildSale(productID uuid.UUID, quantity int, soldAt time.Time) *domain.Sale {
	return &domain.Sale{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: "Test Hammer",
		StaffID:     uuid.New(),
		Quantity:    quantity,
		UnitPrice:   80,
		TotalAmount: float64(quantity) * 80,
		SoldAt:      soldAt,
		CreatedAt:   time.Now(),
	}
}

// Feature: store-dashboard, Property 22: Sale insert and stock decrement are atomic
// Validates: Requirements 2.3
func TestCreateWithStockDecrement_DecrementsStock(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	saleRepo := NewSaleRepository(testDB)
	ctx := context.Background()

	product := seedTestProduct(t, productRepo, 10)
	defer productRepo.Delete(ctx, product.ID)

	if err := saleRepo.CreateWithStockDecrement(ctx, buildSale(product.ID, 3, time.Now())); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	retrieved, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if retrieved.Quantity != 7 {
		t.Fatalf("expected quantity 7 after sale, got %d", retrieved.Quantity)
	}
}

func TestCreateWithStockDecrement_InsufficientStockRollsBack(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	saleRepo := NewSaleRepository(testDB)
	ctx := context.Background()

	product := seedTestProduct(t, productRepo, 2)
	defer productRepo.Delete(ctx, product.ID)

	salesBefore := countRows(t, "sales")

	err := saleRepo.CreateWithStockDecrement(ctx, buildSale(product.ID, 5, time.Now()))
	if err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Nothing was written: no sale row, no stock change
	if countRows(t, "sales") != salesBefore {
		t.Fatal("rejected sale left a sale row behind")
	}

	retrieved, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if retrieved.Quantity != 2 {
		t.Fatalf("rejected sale changed stock: %d", retrieved.Quantity)
	}
}

func TestCreateWithStockDecrement_ExactStockReachesZero(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	saleRepo := NewSaleRepository(testDB)
	ctx := context.Background()

	product := seedTestProduct(t, productRepo, 4)
	defer productRepo.Delete(ctx, product.ID)

	if err := saleRepo.CreateWithStockDecrement(ctx, buildSale(product.ID, 4, time.Now())); err != nil {
		t.Fatalf("sale for exact stock failed: %v", err)
	}

	retrieved, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if retrieved.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", retrieved.Quantity)
	}
}

func TestCreateWithStockDecrement_UnknownProduct(t *testing.T) {
	saleRepo := NewSaleRepository(testDB)
	ctx := context.Background()

	err := saleRepo.CreateWithStockDecrement(ctx, buildSale(uuid.New(), 1, time.Now()))
	if err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock for unknown product, got %v", err)
	}
}

func TestSaleRepository_ListWithFilter(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	saleRepo := NewSaleRepository(testDB)
	ctx := context.Background()

	product := seedTestProduct(t, productRepo, 100)
	defer productRepo.Delete(ctx, product.ID)

	base := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	ids := map[uuid.UUID]bool{}
	for i := 0; i < 4; i++ {
		sale := buildSale(product.ID, 1, base.AddDate(0, 0, i))
		if err := saleRepo.CreateWithStockDecrement(ctx, sale); err != nil {
			t.Fatalf("seed sale failed: %v", err)
		}
		ids[sale.ID] = true
	}

	sales, err := saleRepo.List(ctx, SaleFilter{
		From: base.AddDate(0, 0, 1),
		To:   base.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	matched := 0
	for _, sale := range sales {
		if ids[sale.ID] {
			matched++
			if sale.SoldAt.Before(base.AddDate(0, 0, 1)) {
				t.Errorf("sale before the lower bound returned: %v", sale.SoldAt)
			}
		}
	}
	if matched != 2 {
		t.Fatalf("expected 2 of the seeded sales in window, got %d", matched)
	}
}
