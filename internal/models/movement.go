package models

import "time"

type MovementKind string

const (
	MovementReceive MovementKind = "receive"
	MovementConsume MovementKind = "consume"
	MovementWaste   MovementKind = "waste"
	MovementAdjust  MovementKind = "adjust"
	MovementEmpty   MovementKind = "empty"
)

// Valid reports whether k is one of the known movement kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementReceive, MovementConsume, MovementWaste, MovementAdjust, MovementEmpty:
		return true
	}
	return false
}

// Movement is one entry of the stock ledger. BatchID is nil once the batch
// has been deleted.
type Movement struct {
	ID        int          `db:"id" json:"id"`
	ProductID int          `db:"product_id" json:"product_id"`
	BatchID   *int         `db:"batch_id" json:"batch_id,omitempty"`
	Kind      MovementKind `db:"kind" json:"kind"`
	Delta     int          `db:"delta" json:"delta"`
	Reason    string       `db:"reason" json:"reason,omitempty"`
	Actor     string       `db:"actor" json:"actor,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// ConsumptionRecord is the number of units consumed on one calendar day.
type ConsumptionRecord struct {
	Date     time.Time `db:"day" json:"date"`
	Quantity int       `db:"quantity" json:"quantity"`
}
