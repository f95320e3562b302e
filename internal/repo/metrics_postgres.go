package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type PostgresMetricsRepository struct {
	db *sqlx.DB
}

func NewPostgresMetricsRepository(db *sqlx.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context, today time.Time) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics
	day := today.Format(time.DateOnly)

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&m.TotalProducts, `SELECT COUNT(*) FROM products`, nil},
		{&m.TotalBatches, `SELECT COUNT(*) FROM inventory_batches WHERE quantity > 0`, nil},
		{&m.TotalUnits, `SELECT COALESCE(SUM(quantity), 0) FROM inventory_batches`, nil},
		{&m.TotalMovements, `SELECT COUNT(*) FROM movements`, nil},
		{&m.LowStockCount, `
			SELECT COUNT(*)
			FROM products p
			LEFT JOIN (
				SELECT product_id, SUM(quantity) AS on_hand FROM inventory_batches GROUP BY product_id
			) s ON s.product_id = p.id
			WHERE COALESCE(s.on_hand, 0) <= p.reorder_point`, nil},
		{&m.ExpiredBatches, `
			SELECT COUNT(*) FROM inventory_batches
			WHERE quantity > 0 AND expiration_date < $1::date`, []any{day}},
		{&m.ExpiringSoon, `
			SELECT COUNT(*) FROM inventory_batches
			WHERE quantity > 0 AND expiration_date >= $1::date AND expiration_date <= $1::date + 7`, []any{day}},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query, c.args...); err != nil {
			return Metrics{}, fmt.Errorf("dashboard metrics: %w", err)
		}
	}

	err := r.db.GetContext(ctx, &m.MostMovedProduct, `
		SELECT p.name, COUNT(*) AS movement_count
		FROM movements m
		JOIN products p ON m.product_id = p.id
		GROUP BY p.name
		ORDER BY movement_count DESC, p.name
		LIMIT 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Metrics{}, fmt.Errorf("dashboard metrics: %w", err)
	}

	return m, nil
}
