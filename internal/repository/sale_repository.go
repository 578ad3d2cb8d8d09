package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"madeh-desk/internal/domain"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock for product")
)

// SaleFilter narrows a sales listing. Zero-value fields are ignored.
type SaleFilter struct {
	From time.Time
	To   time.Time
}

// SaleRepository defines the interface for sale data access. Sales are
// append-only: there is no update or delete operation.
type SaleRepository interface {
	// CreateWithStockDecrement records a sale and decrements the sold
	// product's stock as a single transaction. The decrement is
	// conditional on sufficient stock, so concurrent sales against the
	// same product cannot drive the quantity negative; when the
	// condition fails the whole transaction rolls back and
	// ErrInsufficientStock is returned.
	CreateWithStockDecrement(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context, filter SaleFilter) ([]*domain.Sale, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateWithStockDecrement(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional decrement: only succeeds while enough stock remains.
	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND quantity >= $2
	`, sale.ProductID, sale.Quantity, sale.SoldAt)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the product vanished or a concurrent sale consumed the
		// remaining stock between validation and commit.
		return ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, product_id, product_name, staff_id, customer_name, quantity, unit_price, total_amount, sold_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		sale.ID,
		sale.ProductID,
		sale.ProductName,
		sale.StaffID,
		sale.CustomerName,
		sale.Quantity,
		sale.UnitPrice,
		sale.TotalAmount,
		sale.SoldAt,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}

	return nil
}

// List retrieves sales as a point-in-time snapshot, newest first,
// optionally bounded by the filter's time range.
func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]*domain.Sale, error) {
	query := `
		SELECT id, product_id, product_name, staff_id, customer_name, quantity, unit_price, total_amount, sold_at, created_at
		FROM sales
	`

	args := []interface{}{}
	where := ""
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = fmt.Sprintf("WHERE sold_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		if where == "" {
			where = fmt.Sprintf("WHERE sold_at < $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND sold_at < $%d", len(args))
		}
	}

	query += where + " ORDER BY sold_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		err := rows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.ProductName,
			&sale.StaffID,
			&sale.CustomerName,
			&sale.Quantity,
			&sale.UnitPrice,
			&sale.TotalAmount,
			&sale.SoldAt,
			&sale.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}
