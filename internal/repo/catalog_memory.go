package repo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/models"
)

type InMemoryCatalogRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	suppliers  []models.Supplier
}

func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{}
}

func (r *InMemoryCatalogRepository) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return models.Category{}, ErrDuplicateName
		}
	}
	c.ID = len(r.categories) + 1
	c.CreatedAt = time.Now().UTC()
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryCatalogRepository) GetCategories(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.categories)
	slices.SortFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	if out == nil {
		out = []models.Category{}
	}
	return out, nil
}

func (r *InMemoryCatalogRepository) GetCategoryByID(_ context.Context, id int) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

func (r *InMemoryCatalogRepository) CreateSupplier(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.suppliers {
		if strings.EqualFold(existing.Name, s.Name) {
			return models.Supplier{}, ErrDuplicateName
		}
	}
	s.ID = len(r.suppliers) + 1
	s.CreatedAt = time.Now().UTC()
	r.suppliers = append(r.suppliers, s)
	return s, nil
}

func (r *InMemoryCatalogRepository) GetSuppliers(_ context.Context) ([]models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.suppliers)
	slices.SortFunc(out, func(a, b models.Supplier) int { return strings.Compare(a.Name, b.Name) })
	if out == nil {
		out = []models.Supplier{}
	}
	return out, nil
}

func (r *InMemoryCatalogRepository) GetSupplierByID(_ context.Context, id int) (models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}

func (r *InMemoryCatalogRepository) UpdateSupplier(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.suppliers {
		if existing.ID == s.ID {
			s.CreatedAt = existing.CreatedAt
			r.suppliers[i] = s
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}
