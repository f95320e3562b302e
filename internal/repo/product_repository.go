package repo

import (
	"context"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

// ProductRepository defines the interface for product data operations.
// Deleting a product removes its batches as well.
type ProductRepository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
}
