package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

const productColumns = `id, name, items_per_case, cost_per_case, reorder_point, max_stock, category_id, supplier_id, created_at, updated_at`

type PostgresProductRepository struct {
	db *sqlx.DB
}

func NewPostgresProductRepository(db *sqlx.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `
		INSERT INTO products (name, items_per_case, cost_per_case, reorder_point, max_stock, category_id, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var created models.Product
	err := r.db.GetContext(ctx, &created, query,
		p.Name, p.ItemsPerCase, p.CostPerCase, p.ReorderPoint, p.MaxStock, p.CategoryID, p.SupplierID)
	if err != nil {
		return models.Product{}, translatePgError(err)
	}
	return created, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	products := []models.Product{}
	err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY id`)
	return products, err
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, items_per_case = $2, cost_per_case = $3, reorder_point = $4, max_stock = $5,
		    category_id = $6, supplier_id = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.Product
	err := r.db.GetContext(ctx, &updated, query,
		p.Name, p.ItemsPerCase, p.CostPerCase, p.ReorderPoint, p.MaxStock,
		p.CategoryID, p.SupplierID, time.Now().UTC(), p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, translatePgError(err)
	}
	return updated, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM products WHERE 1=1"+conditions, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + " ORDER BY id"
	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}
	return products, totalCount, nil
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Name+"%")
		argIdx++
	}
	if pf.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, *pf.CategoryID)
		argIdx++
	}
	if pf.SupplierID != nil {
		query += fmt.Sprintf(" AND supplier_id = $%d", argIdx)
		args = append(args, *pf.SupplierID)
		argIdx++
	}

	return query, args, argIdx
}
