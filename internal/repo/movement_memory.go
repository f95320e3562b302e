package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type InMemoryMovementRepository struct {
	mu        sync.RWMutex
	movements []models.Movement
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{
		movements: []models.Movement{},
	}
}

// AddMovement stores m as given, keeping its timestamp. Used to seed history.
func (r *InMemoryMovementRepository) AddMovement(m models.Movement) models.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(m)
}

func (r *InMemoryMovementRepository) appendLocked(m models.Movement) models.Movement {
	m.ID = len(r.movements) + 1
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.movements = append(r.movements, m)
	return m
}

// Log inserts a new inventory movement
func (r *InMemoryMovementRepository) Log(_ context.Context, m models.Movement) (models.Movement, error) {
	return r.AddMovement(m), nil
}

// GetByProductID returns the product's movements newest first, optionally
// filtered by date range and kind, and paginated.
func (r *InMemoryMovementRepository) GetByProductID(_ context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Movement{}
	for _, m := range r.movements {
		if m.ProductID != productID {
			continue
		}
		if (mf.Since != nil && m.CreatedAt.Before(*mf.Since)) ||
			(mf.Until != nil && m.CreatedAt.After(*mf.Until)) ||
			(mf.Kind != "" && string(m.Kind) != mf.Kind) {
			continue
		}
		filtered = append(filtered, m)
	}
	slices.Reverse(filtered)

	if mf.Limit != nil && *mf.Limit == 0 {
		return []models.Movement{}, len(filtered), nil
	}
	limit := mf.Limit
	if limit == nil || *limit > defaultLimit {
		l := defaultLimit
		limit = &l
	}
	return page(filtered, mf.Offset, limit), len(filtered), nil
}

func (r *InMemoryMovementRepository) ConsumptionHistory(ctx context.Context, productID int, since, until time.Time) ([]models.ConsumptionRecord, error) {
	all, err := r.ConsumptionByProduct(ctx, since, until)
	if err != nil {
		return nil, err
	}
	if all[productID] == nil {
		return []models.ConsumptionRecord{}, nil
	}
	return all[productID], nil
}

func (r *InMemoryMovementRepository) ConsumptionByProduct(_ context.Context, since, until time.Time) (map[int][]models.ConsumptionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct {
		product int
		day     time.Time
	}
	totals := map[key]int{}
	for _, m := range r.movements {
		if m.Kind != models.MovementConsume || m.CreatedAt.Before(since) || !m.CreatedAt.Before(until) {
			continue
		}
		// Days are counted in the window's location, not the movement's.
		y, mo, d := m.CreatedAt.In(since.Location()).Date()
		totals[key{m.ProductID, time.Date(y, mo, d, 0, 0, 0, 0, since.Location())}] += -m.Delta
	}

	out := make(map[int][]models.ConsumptionRecord)
	for k, qty := range totals {
		out[k.product] = append(out[k.product], models.ConsumptionRecord{Date: k.day, Quantity: qty})
	}
	for _, records := range out {
		slices.SortFunc(records, func(a, b models.ConsumptionRecord) int { return a.Date.Compare(b.Date) })
	}
	return out, nil
}

func (r *InMemoryMovementRepository) count() (int, map[int]int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	perProduct := map[int]int{}
	for _, m := range r.movements {
		perProduct[m.ProductID]++
	}
	return len(r.movements), perProduct
}
