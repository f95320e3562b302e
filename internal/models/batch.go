package models

import "time"

// InventoryBatch is a physical lot of a product. A batch with quantity 0 is
// empty but stays on record until it is deleted.
type InventoryBatch struct {
	ID             int        `db:"id" json:"id"`
	ProductID      int        `db:"product_id" json:"product_id"`
	Quantity       int        `db:"quantity" json:"quantity"`
	CaseQuantity   int        `db:"case_quantity" json:"case_quantity"`
	ExpirationDate *time.Time `db:"expiration_date" json:"expiration_date,omitempty"`
	Location       *string    `db:"location" json:"location,omitempty"`
	ReceivedDate   time.Time  `db:"received_date" json:"received_date"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsEmpty reports whether nothing can be drawn from the batch.
func (b InventoryBatch) IsEmpty() bool {
	return b.Quantity <= 0
}
