package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

var batchFields = []string{
	"id", "product_id", "quantity", "case_quantity", "expiration_date",
	"location", "received_date", "notes", "created_at", "updated_at",
}

var batchColumns = strings.Join(batchFields, ", ")

const fefoOrder = `ORDER BY expiration_date ASC NULLS LAST, received_date ASC, id ASC`

type PostgresBatchRepository struct {
	db *sqlx.DB
}

func NewPostgresBatchRepository(db *sqlx.DB) *PostgresBatchRepository {
	return &PostgresBatchRepository{db: db}
}

func (r *PostgresBatchRepository) Create(ctx context.Context, b models.InventoryBatch, actor string) (models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	defer tx.Rollback()

	var created models.InventoryBatch
	err = tx.GetContext(ctx, &created, `
		INSERT INTO inventory_batches (product_id, quantity, case_quantity, expiration_date, location, received_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+batchColumns,
		b.ProductID, b.Quantity, b.CaseQuantity, b.ExpirationDate, b.Location, b.ReceivedDate, b.Notes)
	if err != nil {
		if errors.Is(translatePgError(err), ErrInvalidReference) {
			return models.InventoryBatch{}, ErrProductNotFound
		}
		return models.InventoryBatch{}, err
	}

	if created.Quantity > 0 {
		m := models.Movement{
			ProductID: created.ProductID,
			BatchID:   &created.ID,
			Kind:      models.MovementReceive,
			Delta:     created.Quantity,
			Actor:     actor,
		}
		if err := insertMovement(ctx, tx, m); err != nil {
			return models.InventoryBatch{}, err
		}
	}

	return created, tx.Commit()
}

func (r *PostgresBatchRepository) GetByID(ctx context.Context, id int) (models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b models.InventoryBatch
	err := r.db.GetContext(ctx, &b, `SELECT `+batchColumns+` FROM inventory_batches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryBatch{}, ErrBatchNotFound
	}
	return b, err
}

func (r *PostgresBatchRepository) ListByProduct(ctx context.Context, productID int) ([]models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	batches := []models.InventoryBatch{}
	err := r.db.SelectContext(ctx, &batches,
		`SELECT `+batchColumns+` FROM inventory_batches WHERE product_id = $1 `+fefoOrder, productID)
	return batches, err
}

func (r *PostgresBatchRepository) ListNonEmpty(ctx context.Context) ([]models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	batches := []models.InventoryBatch{}
	err := r.db.SelectContext(ctx, &batches,
		`SELECT `+batchColumns+` FROM inventory_batches WHERE quantity > 0 `+fefoOrder)
	return batches, err
}

func (r *PostgresBatchRepository) StockByProduct(ctx context.Context) (map[int]int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []struct {
		ProductID int `db:"product_id"`
		Total     int `db:"total"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT product_id, COALESCE(SUM(quantity), 0) AS total FROM inventory_batches GROUP BY product_id`)
	if err != nil {
		return nil, err
	}
	stock := make(map[int]int, len(rows))
	for _, row := range rows {
		stock[row.ProductID] = row.Total
	}
	return stock, nil
}

// AdjustQuantity applies the delta in a single guarded UPDATE so concurrent
// adjustments cannot lose each other's writes or push stock below zero.
func (r *PostgresBatchRepository) AdjustQuantity(ctx context.Context, adj BatchAdjustment) (models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	defer tx.Rollback()

	var b models.InventoryBatch
	err = tx.GetContext(ctx, &b, `
		UPDATE inventory_batches
		SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3 AND quantity + $1 >= 0
		RETURNING `+batchColumns,
		adj.Delta, time.Now().UTC(), adj.BatchID)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM inventory_batches WHERE id = $1)`, adj.BatchID); err != nil {
			return models.InventoryBatch{}, err
		}
		if !exists {
			return models.InventoryBatch{}, ErrBatchNotFound
		}
		return models.InventoryBatch{}, ErrInvalidQuantityChange
	}
	if err != nil {
		return models.InventoryBatch{}, err
	}

	m := models.Movement{
		ProductID: b.ProductID,
		BatchID:   &b.ID,
		Kind:      adj.Kind,
		Delta:     adj.Delta,
		Reason:    adj.Reason,
		Actor:     adj.Actor,
	}
	if err := insertMovement(ctx, tx, m); err != nil {
		return models.InventoryBatch{}, err
	}
	return b, tx.Commit()
}

// MarkEmpty zeroes the batch under a row lock and logs the removed quantity.
func (r *PostgresBatchRepository) MarkEmpty(ctx context.Context, id int, actor string) (models.InventoryBatch, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	defer tx.Rollback()

	var row struct {
		models.InventoryBatch
		PriorQuantity int `db:"prior_quantity"`
	}
	err = tx.GetContext(ctx, &row, fmt.Sprintf(`
		WITH prior AS (
			SELECT id, quantity FROM inventory_batches WHERE id = $1 FOR UPDATE
		)
		UPDATE inventory_batches b
		SET quantity = 0, updated_at = $2
		FROM prior
		WHERE b.id = prior.id
		RETURNING %s, prior.quantity AS prior_quantity`, prefixed("b.", batchFields)),
		id, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryBatch{}, ErrBatchNotFound
	}
	if err != nil {
		return models.InventoryBatch{}, err
	}

	if row.PriorQuantity > 0 {
		m := models.Movement{
			ProductID: row.ProductID,
			BatchID:   &row.ID,
			Kind:      models.MovementEmpty,
			Delta:     -row.PriorQuantity,
			Actor:     actor,
		}
		if err := insertMovement(ctx, tx, m); err != nil {
			return models.InventoryBatch{}, err
		}
	}
	return row.InventoryBatch, tx.Commit()
}

func (r *PostgresBatchRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_batches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func prefixed(prefix string, fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = prefix + f
	}
	return strings.Join(out, ", ")
}
