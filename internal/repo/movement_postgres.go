package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

const movementColumns = `id, product_id, batch_id, kind, delta, reason, actor, created_at`

type PostgresMovementRepository struct {
	db *sqlx.DB
}

func NewPostgresMovementRepository(db *sqlx.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

// Log inserts a new inventory movement
func (r *PostgresMovementRepository) Log(ctx context.Context, m models.Movement) (models.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var logged models.Movement
	err := r.db.GetContext(ctx, &logged, `
		INSERT INTO movements (product_id, batch_id, kind, delta, reason, actor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+movementColumns,
		m.ProductID, m.BatchID, m.Kind, m.Delta, m.Reason, m.Actor)
	if err != nil {
		return models.Movement{}, fmt.Errorf("failed to insert movement: %w", translatePgError(err))
	}
	return logged, nil
}

func insertMovement(ctx context.Context, tx *sqlx.Tx, m models.Movement) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO movements (product_id, batch_id, kind, delta, reason, actor)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ProductID, m.BatchID, m.Kind, m.Delta, m.Reason, m.Actor)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// GetByProductID returns a page of movements for a product, newest first,
// along with the total number matching the filter.
func (r *PostgresMovementRepository) GetByProductID(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	whereClause, args := r.buildWhereClause(productID, mf)

	if mf.Offset != nil && *mf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM movements "+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// limit = 0 means count only
	if mf.Limit != nil && *mf.Limit == 0 {
		return []models.Movement{}, total, nil
	}
	if mf.Offset != nil && *mf.Offset >= total {
		return []models.Movement{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, mf)
	movements := []models.Movement{}
	if err := r.db.SelectContext(ctx, &movements, query, queryArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return movements, total, nil
}

func (r *PostgresMovementRepository) buildWhereClause(productID int, mf MovementFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *mf.Since)
		argIndex++
	}
	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *mf.Until)
		argIndex++
	}
	if mf.Kind != "" {
		whereClause += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, mf.Kind)
	}

	return whereClause, args
}

func (r *PostgresMovementRepository) buildMainQuery(whereClause string, baseArgs []any, mf MovementFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM movements %s ORDER BY created_at DESC, id DESC", movementColumns, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if mf.Offset != nil && *mf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *mf.Offset)
	}

	return query, args
}

const consumptionQuery = `
	SELECT product_id, (created_at AT TIME ZONE $3)::date AS day, SUM(-delta)::int AS quantity
	FROM movements
	WHERE kind = 'consume' AND created_at >= $1 AND created_at < $2 %s
	GROUP BY product_id, day
	ORDER BY product_id, day`

// zoneName is the time zone Postgres buckets consumption days in: the
// location of the window bounds. Zones without an IANA name are sent as a
// POSIX offset, where positive means west of Greenwich.
func zoneName(t time.Time) string {
	name := t.Location().String()
	if name != "Local" && name != "" {
		if _, err := time.LoadLocation(name); err == nil {
			return name
		}
	}
	_, offset := t.Zone()
	west := -offset
	sign := "+"
	if west < 0 {
		sign, west = "-", -west
	}
	return fmt.Sprintf("%s%02d:%02d", sign, west/3600, west%3600/60)
}

type consumptionRow struct {
	ProductID int `db:"product_id"`
	models.ConsumptionRecord
}

func (r *PostgresMovementRepository) ConsumptionHistory(ctx context.Context, productID int, since, until time.Time) ([]models.ConsumptionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []consumptionRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf(consumptionQuery, "AND product_id = $4"), since, until, zoneName(since), productID); err != nil {
		return nil, err
	}
	records := make([]models.ConsumptionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ConsumptionRecord)
	}
	return records, nil
}

func (r *PostgresMovementRepository) ConsumptionByProduct(ctx context.Context, since, until time.Time) (map[int][]models.ConsumptionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []consumptionRow
	if err := r.db.SelectContext(ctx, &rows, fmt.Sprintf(consumptionQuery, ""), since, until, zoneName(since)); err != nil {
		return nil, err
	}
	out := make(map[int][]models.ConsumptionRecord)
	for _, row := range rows {
		out[row.ProductID] = append(out[row.ProductID], row.ConsumptionRecord)
	}
	return out, nil
}
