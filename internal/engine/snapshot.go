package engine

import (
	"cmp"
	"slices"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

// SortBatches returns a copy of batches in FEFO order: earliest expiration
// first, batches without an expiration date last, ties broken by received
// date and then id so the order is total.
func SortBatches(batches []models.InventoryBatch) []models.InventoryBatch {
	sorted := slices.Clone(batches)
	if sorted == nil {
		sorted = []models.InventoryBatch{}
	}
	slices.SortStableFunc(sorted, compareBatches)
	return sorted
}

func compareBatches(a, b models.InventoryBatch) int {
	switch {
	case a.ExpirationDate == nil && b.ExpirationDate != nil:
		return 1
	case a.ExpirationDate != nil && b.ExpirationDate == nil:
		return -1
	case a.ExpirationDate != nil && b.ExpirationDate != nil:
		if c := a.ExpirationDate.Compare(*b.ExpirationDate); c != 0 {
			return c
		}
	}
	if c := a.ReceivedDate.Compare(b.ReceivedDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// TotalQuantity sums the quantity over non-empty batches.
func TotalQuantity(batches []models.InventoryBatch) int {
	total := 0
	for _, b := range batches {
		if b.Quantity > 0 {
			total += b.Quantity
		}
	}
	return total
}
