package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

// InMemoryBatchRepository keeps batches in memory. The mutex stands in for
// the row locks and single-statement updates of the Postgres version.
type InMemoryBatchRepository struct {
	mu        sync.Mutex
	batches   map[int]models.InventoryBatch
	nextID    int
	products  ProductRepository
	movements *InMemoryMovementRepository
}

func NewInMemoryBatchRepository(products ProductRepository, movements *InMemoryMovementRepository) *InMemoryBatchRepository {
	return &InMemoryBatchRepository{
		batches:   map[int]models.InventoryBatch{},
		nextID:    1,
		products:  products,
		movements: movements,
	}
}

func (r *InMemoryBatchRepository) Create(ctx context.Context, b models.InventoryBatch, actor string) (models.InventoryBatch, error) {
	if r.products != nil {
		if _, err := r.products.GetByID(ctx, b.ProductID); err != nil {
			return models.InventoryBatch{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	b.ID = r.nextID
	b.CreatedAt, b.UpdatedAt = now, now
	r.nextID++
	r.batches[b.ID] = b

	if b.Quantity > 0 {
		r.logLocked(models.Movement{ProductID: b.ProductID, BatchID: &b.ID, Kind: models.MovementReceive, Delta: b.Quantity, Actor: actor})
	}
	return b, nil
}

func (r *InMemoryBatchRepository) GetByID(_ context.Context, id int) (models.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return models.InventoryBatch{}, ErrBatchNotFound
	}
	return b, nil
}

func (r *InMemoryBatchRepository) ListByProduct(_ context.Context, productID int) ([]models.InventoryBatch, error) {
	return r.list(func(b models.InventoryBatch) bool { return b.ProductID == productID }), nil
}

func (r *InMemoryBatchRepository) ListNonEmpty(_ context.Context) ([]models.InventoryBatch, error) {
	return r.list(func(b models.InventoryBatch) bool { return b.Quantity > 0 }), nil
}

func (r *InMemoryBatchRepository) list(keep func(models.InventoryBatch) bool) []models.InventoryBatch {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.InventoryBatch{}
	for _, b := range r.batches {
		if keep(b) {
			out = append(out, b)
		}
	}
	return engine.SortBatches(out)
}

func (r *InMemoryBatchRepository) StockByProduct(_ context.Context) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stock := map[int]int{}
	for _, b := range r.batches {
		stock[b.ProductID] += b.Quantity
	}
	return stock, nil
}

func (r *InMemoryBatchRepository) AdjustQuantity(_ context.Context, adj BatchAdjustment) (models.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[adj.BatchID]
	if !ok {
		return models.InventoryBatch{}, ErrBatchNotFound
	}
	if b.Quantity+adj.Delta < 0 {
		return models.InventoryBatch{}, ErrInvalidQuantityChange
	}
	b.Quantity += adj.Delta
	b.UpdatedAt = time.Now().UTC()
	r.batches[b.ID] = b

	r.logLocked(models.Movement{
		ProductID: b.ProductID,
		BatchID:   &b.ID,
		Kind:      adj.Kind,
		Delta:     adj.Delta,
		Reason:    adj.Reason,
		Actor:     adj.Actor,
	})
	return b, nil
}

func (r *InMemoryBatchRepository) MarkEmpty(_ context.Context, id int, actor string) (models.InventoryBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return models.InventoryBatch{}, ErrBatchNotFound
	}
	prior := b.Quantity
	b.Quantity = 0
	b.UpdatedAt = time.Now().UTC()
	r.batches[id] = b

	if prior > 0 {
		r.logLocked(models.Movement{ProductID: b.ProductID, BatchID: &b.ID, Kind: models.MovementEmpty, Delta: -prior, Actor: actor})
	}
	return b, nil
}

func (r *InMemoryBatchRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[id]; !ok {
		return ErrBatchNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *InMemoryBatchRepository) deleteByProduct(productID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.batches {
		if b.ProductID == productID {
			delete(r.batches, id)
		}
	}
}

func (r *InMemoryBatchRepository) logLocked(m models.Movement) {
	if r.movements != nil {
		r.movements.AddMovement(m)
	}
}

func (r *InMemoryBatchRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = map[int]models.InventoryBatch{}
}
