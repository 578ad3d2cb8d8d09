package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in the store's inventory
type Product struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Category          string    `json:"category" db:"category"`
	Quantity          int       `json:"quantity" db:"quantity"`
	BuyingPrice       float64   `json:"buying_price" db:"buying_price"`
	Price             float64   `json:"price" db:"price"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the product's quantity has fallen to or
// below its configured threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}
