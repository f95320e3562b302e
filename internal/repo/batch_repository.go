package repo

import (
	"context"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

// BatchAdjustment describes a signed quantity change on one batch.
type BatchAdjustment struct {
	BatchID int
	Delta   int
	Kind    models.MovementKind
	Reason  string
	Actor   string
}

// BatchRepository stores inventory batches. Every write that changes a
// quantity records a movement in the same transaction, and quantity
// changes are applied by the store itself rather than read-modify-write.
type BatchRepository interface {
	Create(ctx context.Context, b models.InventoryBatch, actor string) (models.InventoryBatch, error)
	GetByID(ctx context.Context, id int) (models.InventoryBatch, error)
	// ListByProduct returns the product's batches in FEFO order, empty ones included.
	ListByProduct(ctx context.Context, productID int) ([]models.InventoryBatch, error)
	ListNonEmpty(ctx context.Context) ([]models.InventoryBatch, error)
	StockByProduct(ctx context.Context) (map[int]int, error)
	AdjustQuantity(ctx context.Context, adj BatchAdjustment) (models.InventoryBatch, error)
	MarkEmpty(ctx context.Context, id int, actor string) (models.InventoryBatch, error)
	Delete(ctx context.Context, id int) error
}
