package repo

import (
	"context"
	"time"
)

type MostMovedProduct struct {
	Name          string `json:"name" db:"name"`
	MovementCount int    `json:"movement_count" db:"movement_count"`
}

type Metrics struct {
	TotalProducts    int              `json:"total_products"`
	TotalBatches     int              `json:"total_batches"`
	TotalUnits       int              `json:"total_units"`
	TotalMovements   int              `json:"total_movements"`
	LowStockCount    int              `json:"low_stock_count"`
	ExpiredBatches   int              `json:"expired_batches"`
	ExpiringSoon     int              `json:"expiring_within_7_days"`
	MostMovedProduct MostMovedProduct `json:"most_moved_product"`
}

type MetricsRepository interface {
	// GetDashboardMetrics counts expiry against the calendar date of today.
	GetDashboardMetrics(ctx context.Context, today time.Time) (Metrics, error)
}
