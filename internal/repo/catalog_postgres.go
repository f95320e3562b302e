package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

const supplierColumns = `id, name, contact_email, lead_time_days, max_lead_time_days, created_at`

type PostgresCatalogRepository struct {
	db *sqlx.DB
}

func NewPostgresCatalogRepository(db *sqlx.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.GetContext(ctx, &c,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at`, c.Name)
	if err != nil {
		return models.Category{}, translatePgError(err)
	}
	return c, nil
}

func (r *PostgresCatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories, `SELECT id, name, created_at FROM categories ORDER BY name`)
	return categories, err
}

func (r *PostgresCatalogRepository) GetCategoryByID(ctx context.Context, id int) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Category
	err := r.db.GetContext(ctx, &c, `SELECT id, name, created_at FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCatalogRepository) CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.GetContext(ctx, &s, `
		INSERT INTO suppliers (name, contact_email, lead_time_days, max_lead_time_days)
		VALUES ($1, $2, $3, $4)
		RETURNING `+supplierColumns,
		s.Name, s.ContactEmail, s.LeadTimeDays, s.MaxLeadTimeDays)
	if err != nil {
		return models.Supplier{}, translatePgError(err)
	}
	return s, nil
}

func (r *PostgresCatalogRepository) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	suppliers := []models.Supplier{}
	err := r.db.SelectContext(ctx, &suppliers, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	return suppliers, err
}

func (r *PostgresCatalogRepository) GetSupplierByID(ctx context.Context, id int) (models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Supplier
	err := r.db.GetContext(ctx, &s, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

func (r *PostgresCatalogRepository) UpdateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.Supplier
	err := r.db.GetContext(ctx, &updated, `
		UPDATE suppliers
		SET name = $1, contact_email = $2, lead_time_days = $3, max_lead_time_days = $4
		WHERE id = $5
		RETURNING `+supplierColumns,
		s.Name, s.ContactEmail, s.LeadTimeDays, s.MaxLeadTimeDays, s.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrSupplierNotFound
	}
	if err != nil {
		return models.Supplier{}, translatePgError(err)
	}
	return updated, nil
}
