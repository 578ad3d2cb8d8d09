package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sale represents one completed retail transaction. Sales are immutable
// once recorded: there is no edit or delete path. ProductName and
// UnitPrice are snapshots taken at sale time, so reports stay correct
// when the product is later renamed, repriced, or deleted.
type Sale struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	ProductName  string    `json:"product_name" db:"product_name"`
	StaffID      uuid.UUID `json:"staff_id" db:"staff_id"`
	CustomerName string    `json:"customer_name,omitempty" db:"customer_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	TotalAmount  float64   `json:"total_amount" db:"total_amount"`
	SoldAt       time.Time `json:"sold_at" db:"sold_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
