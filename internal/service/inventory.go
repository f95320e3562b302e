package service

import (
	"context"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"go.uber.org/zap"
)

// Inventory covers the catalog, batch lifecycle, snapshots and suggestions.
type Inventory struct {
	deps Deps
}

func NewInventory(d Deps) *Inventory {
	return &Inventory{deps: d.withDefaults()}
}

func (s *Inventory) Today() time.Time {
	return s.deps.today()
}

func (s *Inventory) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	created, err := s.deps.Products.Create(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	s.deps.invalidateProduct(ctx, created.ID)
	s.deps.Logger.Info("product created", zap.Int("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Inventory) GetProduct(ctx context.Context, id int) (models.Product, error) {
	return s.deps.Products.GetByID(ctx, id)
}

func (s *Inventory) ListProducts(ctx context.Context, pf repo.ProductFilter) ([]models.Product, int, error) {
	return s.deps.Products.Filter(ctx, pf)
}

func (s *Inventory) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	updated, err := s.deps.Products.Update(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	s.deps.invalidateProduct(ctx, p.ID)
	return updated, nil
}

func (s *Inventory) DeleteProduct(ctx context.Context, id int) error {
	if err := s.deps.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.deps.invalidateProduct(ctx, id)
	s.deps.Logger.Info("product deleted", zap.Int("product_id", id))
	return nil
}

func (s *Inventory) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	return s.deps.Catalog.CreateCategory(ctx, c)
}

func (s *Inventory) Categories(ctx context.Context) ([]models.Category, error) {
	return s.deps.Catalog.GetCategories(ctx)
}

func (s *Inventory) CreateSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	if err := validateLeadTimes(sup); err != nil {
		return models.Supplier{}, err
	}
	return s.deps.Catalog.CreateSupplier(ctx, sup)
}

func (s *Inventory) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.deps.Catalog.GetSuppliers(ctx)
}

func (s *Inventory) GetSupplier(ctx context.Context, id int) (models.Supplier, error) {
	return s.deps.Catalog.GetSupplierByID(ctx, id)
}

// UpdateSupplier changes lead times, which feed every reorder recommendation.
func (s *Inventory) UpdateSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	if err := validateLeadTimes(sup); err != nil {
		return models.Supplier{}, err
	}
	updated, err := s.deps.Catalog.UpdateSupplier(ctx, sup)
	if err != nil {
		return models.Supplier{}, err
	}
	if err := s.deps.Cache.InvalidatePrefix(ctx, reorderKeyPrefix); err != nil {
		s.deps.Logger.Warn("cache invalidation failed", zap.Error(err))
	}
	return updated, nil
}

func validateLeadTimes(sup models.Supplier) error {
	if sup.MaxLeadTimeDays > 0 && sup.MaxLeadTimeDays < sup.LeadTimeDays {
		return invalid("max_lead_time_days must not be below lead_time_days")
	}
	return nil
}

// ReceiveBatch records newly delivered stock. A zero received date means today.
func (s *Inventory) ReceiveBatch(ctx context.Context, b models.InventoryBatch, actor string) (models.InventoryBatch, error) {
	if b.ReceivedDate.IsZero() {
		b.ReceivedDate = s.deps.today()
	}
	created, err := s.deps.Batches.Create(ctx, b, actor)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	s.deps.invalidateProduct(ctx, created.ProductID)
	s.deps.Logger.Info("batch received",
		zap.Int("product_id", created.ProductID),
		zap.Int("batch_id", created.ID),
		zap.Int("quantity", created.Quantity))
	return created, nil
}

func (s *Inventory) GetBatch(ctx context.Context, id int) (models.InventoryBatch, error) {
	return s.deps.Batches.GetByID(ctx, id)
}

// AdjustBatch applies a signed delta. Without an explicit kind, negative
// deltas count as consumption and positive ones as corrections. Consumption
// and waste must reduce stock.
func (s *Inventory) AdjustBatch(ctx context.Context, adj repo.BatchAdjustment) (models.InventoryBatch, error) {
	if adj.Delta == 0 {
		return models.InventoryBatch{}, invalid("delta must not be zero")
	}
	switch adj.Kind {
	case "":
		adj.Kind = models.MovementAdjust
		if adj.Delta < 0 {
			adj.Kind = models.MovementConsume
		}
	case models.MovementConsume, models.MovementWaste:
		if adj.Delta > 0 {
			return models.InventoryBatch{}, invalid("%s requires a negative delta", adj.Kind)
		}
	case models.MovementAdjust:
	default:
		return models.InventoryBatch{}, invalid("kind %q cannot be used for an adjustment", adj.Kind)
	}

	b, err := s.deps.Batches.AdjustQuantity(ctx, adj)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	s.deps.invalidateProduct(ctx, b.ProductID)
	s.deps.Logger.Info("batch adjusted",
		zap.Int("batch_id", b.ID),
		zap.Int("delta", adj.Delta),
		zap.String("kind", string(adj.Kind)),
		zap.Int("quantity", b.Quantity))
	return b, nil
}

func (s *Inventory) MarkBatchEmpty(ctx context.Context, id int, actor string) (models.InventoryBatch, error) {
	b, err := s.deps.Batches.MarkEmpty(ctx, id, actor)
	if err != nil {
		return models.InventoryBatch{}, err
	}
	s.deps.invalidateProduct(ctx, b.ProductID)
	return b, nil
}

func (s *Inventory) DeleteBatch(ctx context.Context, id int) error {
	b, err := s.deps.Batches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Batches.Delete(ctx, id); err != nil {
		return err
	}
	s.deps.invalidateProduct(ctx, b.ProductID)
	return nil
}

// Snapshot returns the product's batches in FEFO order. An unknown product
// has no batches, which is not an error.
func (s *Inventory) Snapshot(ctx context.Context, productID int) ([]models.InventoryBatch, error) {
	batches, err := s.deps.Batches.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return engine.SortBatches(batches), nil
}

// Suggest picks the batch to draw from next. The bool is false when the
// product has no stock left.
func (s *Inventory) Suggest(ctx context.Context, productID int, today time.Time) (engine.Suggestion, bool, error) {
	batches, err := s.Snapshot(ctx, productID)
	if err != nil {
		return engine.Suggestion{}, false, err
	}
	suggestion, ok := engine.SuggestBatch(batches, today)
	return suggestion, ok, nil
}

func (s *Inventory) Movements(ctx context.Context, productID int, mf repo.MovementFilter) ([]models.Movement, int, error) {
	if _, err := s.deps.Products.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.deps.Movements.GetByProductID(ctx, productID, mf)
}

// ConsumptionHistory returns daily consumption for the days in [since, until].
func (s *Inventory) ConsumptionHistory(ctx context.Context, productID int, since, until time.Time) ([]models.ConsumptionRecord, error) {
	if _, err := s.deps.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if until.Before(since) {
		return nil, invalid("until must not be before since")
	}
	return s.deps.Movements.ConsumptionHistory(ctx, productID, s.deps.localDay(since), s.deps.localDay(until).AddDate(0, 0, 1))
}

func (s *Inventory) Dashboard(ctx context.Context) (repo.Metrics, error) {
	return s.deps.Metrics.GetDashboardMetrics(ctx, s.deps.today())
}
