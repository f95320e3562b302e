package repo

import (
	"context"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id int) (models.Category, error)
}

type SupplierRepository interface {
	CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplierByID(ctx context.Context, id int) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
}

// CatalogRepository groups the reference data products point at.
type CatalogRepository interface {
	CategoryRepository
	SupplierRepository
}
