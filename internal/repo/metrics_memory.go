package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
)

type InMemoryMetricsRepository struct {
	productRepo  ProductRepository
	batchRepo    BatchRepository
	movementRepo *InMemoryMovementRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	batchRepo BatchRepository,
	movementRepo *InMemoryMovementRepository,
) {
	i.productRepo = productRepo
	i.batchRepo = batchRepo
	i.movementRepo = movementRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context, today time.Time) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	stock, err := i.batchRepo.StockByProduct(ctx)
	if err != nil {
		return m, err
	}
	for _, p := range products {
		m.TotalUnits += stock[p.ID]
		if stock[p.ID] <= p.ReorderPoint {
			m.LowStockCount++
		}
	}

	batches, err := i.batchRepo.ListNonEmpty(ctx)
	if err != nil {
		return m, err
	}
	m.TotalBatches = len(batches)
	for _, b := range batches {
		if b.ExpirationDate == nil {
			continue
		}
		days := engine.DaysBetween(today, *b.ExpirationDate)
		switch {
		case days < 0:
			m.ExpiredBatches++
		case days <= 7:
			m.ExpiringSoon++
		}
	}

	total, perProduct := i.movementRepo.count()
	m.TotalMovements = total
	for _, p := range products {
		if perProduct[p.ID] > m.MostMovedProduct.MovementCount {
			m.MostMovedProduct = MostMovedProduct{Name: p.Name, MovementCount: perProduct[p.ID]}
		}
	}

	return m, nil
}
