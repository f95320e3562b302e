package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/cache"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

type fixture struct {
	products  *repo.InMemoryProductRepository
	inventory *Inventory
	planner   *Planner
	movements *repo.InMemoryMovementRepository
	catalog   *repo.InMemoryCatalogRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureAt(t, now)
}

func newFixtureAt(t *testing.T, clock time.Time) fixture {
	t.Helper()
	products := repo.NewInMemoryProductRepository()
	movements := repo.NewInMemoryMovementRepository()
	batches := repo.NewInMemoryBatchRepository(products, movements)
	products.SetBatchRepository(batches)
	catalog := repo.NewInMemoryCatalogRepository()
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(products, batches, movements)

	deps := Deps{
		Products:  products,
		Catalog:   catalog,
		Batches:   batches,
		Movements: movements,
		Metrics:   metrics,
		Cache:     cache.NewMemory(),
		Now:       func() time.Time { return clock },
	}
	return fixture{
		products:  products,
		inventory: NewInventory(deps),
		planner: NewPlanner(deps, PlanningDefaults{
			LeadTimeDays:    5,
			MaxLeadTimeDays: 7,
			OrderCost:       50,
			HoldingRate:     0.25,
			CacheTTL:        time.Minute,
		}),
		movements: movements,
		catalog:   catalog,
	}
}

func (f fixture) product(t *testing.T, p models.Product) models.Product {
	t.Helper()
	if p.ItemsPerCase == 0 {
		p.ItemsPerCase = 1
	}
	created, err := f.inventory.CreateProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return created
}

func (f fixture) batch(t *testing.T, b models.InventoryBatch) models.InventoryBatch {
	t.Helper()
	created, err := f.inventory.ReceiveBatch(context.Background(), b, "test")
	if err != nil {
		t.Fatalf("receive batch: %v", err)
	}
	return created
}

// consumeDaily seeds qty units consumed on each of the days before today.
func (f fixture) consumeDaily(productID, days, qty int) {
	today := engine.Day(now)
	for i := 1; i <= days; i++ {
		f.movements.AddMovement(models.Movement{
			ProductID: productID,
			Kind:      models.MovementConsume,
			Delta:     -qty,
			CreatedAt: today.AddDate(0, 0, -i).Add(10 * time.Hour),
		})
	}
}

func daysFromNow(n int) *time.Time {
	d := engine.Day(now).AddDate(0, 0, n)
	return &d
}

func TestSnapshotAndSuggest_EmptyInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []int{1, 999} {
		snap, err := f.inventory.Snapshot(ctx, id)
		if err != nil || len(snap) != 0 {
			t.Fatalf("product %d: expected empty snapshot, got %v (%v)", id, snap, err)
		}
		if _, ok, err := f.inventory.Suggest(ctx, id, now); ok || err != nil {
			t.Fatalf("product %d: expected no suggestion, got ok=%v err=%v", id, ok, err)
		}
	}
}

func TestSuggest_ExpiredBeforeFarFuture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Milk"})
	expired := f.batch(t, models.InventoryBatch{ProductID: p.ID, Quantity: 10, ExpirationDate: daysFromNow(-1)})
	f.batch(t, models.InventoryBatch{ProductID: p.ID, Quantity: 5, ExpirationDate: daysFromNow(90)})

	s, ok, err := f.inventory.Suggest(ctx, p.ID, engine.Day(now))
	if err != nil || !ok {
		t.Fatalf("expected suggestion, got ok=%v err=%v", ok, err)
	}
	if s.BatchID != expired.ID || s.Urgency != engine.UrgencyExpired {
		t.Errorf("expected batch %d expired, got %d %s", expired.ID, s.BatchID, s.Urgency)
	}
}

func TestReceiveBatch_DefaultsReceivedDate(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, models.Product{Name: "Eggs"})
	b := f.batch(t, models.InventoryBatch{ProductID: p.ID, Quantity: 12})

	if !b.ReceivedDate.Equal(engine.Day(now)) {
		t.Errorf("expected received date today, got %v", b.ReceivedDate)
	}
}

func TestAdjustBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Rice"})
	b := f.batch(t, models.InventoryBatch{ProductID: p.ID, Quantity: 10})

	tests := []struct {
		name     string
		adj      repo.BatchAdjustment
		wantErr  error
		wantKind models.MovementKind
	}{
		{"inferred consume", repo.BatchAdjustment{Delta: -2}, nil, models.MovementConsume},
		{"inferred adjust", repo.BatchAdjustment{Delta: 3}, nil, models.MovementAdjust},
		{"explicit waste", repo.BatchAdjustment{Delta: -1, Kind: models.MovementWaste}, nil, models.MovementWaste},
		{"positive consume", repo.BatchAdjustment{Delta: 1, Kind: models.MovementConsume}, ErrInvalidInput, ""},
		{"receive kind", repo.BatchAdjustment{Delta: 1, Kind: models.MovementReceive}, ErrInvalidInput, ""},
		{"zero delta", repo.BatchAdjustment{}, ErrInvalidInput, ""},
		{"below zero", repo.BatchAdjustment{Delta: -100}, repo.ErrInvalidQuantityChange, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.adj.BatchID = b.ID
			_, err := f.inventory.AdjustBatch(ctx, tt.adj)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				return
			}
			moves, _, _ := f.inventory.Movements(ctx, p.ID, repo.MovementFilter{})
			if moves[0].Kind != tt.wantKind {
				t.Errorf("expected latest movement %s, got %s", tt.wantKind, moves[0].Kind)
			}
		})
	}

	got, _ := f.inventory.GetBatch(ctx, b.ID)
	if got.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", got.Quantity)
	}
}

func TestForecast_FlatHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Bananas"})
	f.consumeDaily(p.ID, 90, 10)

	got, err := f.planner.Forecast(ctx, p.ID, ForecastRequest{HorizonDays: 30, LookbackDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DailyAverage != 10 || got.HorizonForecast != 300 || got.Trend != engine.TrendStable {
		t.Errorf("expected 10/300/stable, got %v/%v/%s", got.DailyAverage, got.HorizonForecast, got.Trend)
	}
	if got.ProductName != "Bananas" || got.AsOf != "2025-03-10" {
		t.Errorf("unexpected header %q %q", got.ProductName, got.AsOf)
	}
}

func TestForecast_CachedUntilBatchWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Bread"})
	b := f.batch(t, models.InventoryBatch{ProductID: p.ID, Quantity: 500})
	f.consumeDaily(p.ID, 10, 3)
	req := ForecastRequest{HorizonDays: 10, LookbackDays: 10}

	first, _ := f.planner.Forecast(ctx, p.ID, req)

	// bypasses the service, so the cached value must still be served
	f.consumeDaily(p.ID, 10, 3)
	second, _ := f.planner.Forecast(ctx, p.ID, req)
	if second.DailyAverage != first.DailyAverage {
		t.Fatalf("expected cached %v, got %v", first.DailyAverage, second.DailyAverage)
	}

	if _, err := f.inventory.AdjustBatch(ctx, repo.BatchAdjustment{BatchID: b.ID, Delta: -1}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	third, _ := f.planner.Forecast(ctx, p.ID, req)
	if third.DailyAverage != 6 {
		t.Errorf("expected recomputed average 6, got %v", third.DailyAverage)
	}
}

func TestForecast_Errors(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, models.Product{Name: "Tea"})

	tests := []struct {
		name    string
		id      int
		req     ForecastRequest
		wantErr error
	}{
		{"unknown product", 404, ForecastRequest{}, repo.ErrProductNotFound},
		{"unsupported method", p.ID, ForecastRequest{Method: engine.MethodExponentialSmoothing}, engine.ErrNotImplemented},
		{"horizon too long", p.ID, ForecastRequest{HorizonDays: 1000}, ErrInvalidInput},
		{"negative lookback", p.ID, ForecastRequest{LookbackDays: -1}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.planner.Forecast(context.Background(), tt.id, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slow, _ := f.catalog.CreateSupplier(ctx, models.Supplier{Name: "Slow Farms", LeadTimeDays: 10, MaxLeadTimeDays: 14})

	milk := f.product(t, models.Product{Name: "Milk", ItemsPerCase: 12, CostPerCase: decimal.NewFromInt(24), MaxStock: 200, SupplierID: &slow.ID})
	f.batch(t, models.InventoryBatch{ProductID: milk.ID, Quantity: 30})
	f.consumeDaily(milk.ID, 90, 5)

	salt := f.product(t, models.Product{Name: "Salt", ReorderPoint: 5, MaxStock: 50})
	f.batch(t, models.InventoryBatch{ProductID: salt.ID, Quantity: 30})

	flour := f.product(t, models.Product{Name: "Flour", ReorderPoint: 10, MaxStock: 40})

	all, err := f.planner.Recommendations(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(all))
	}

	order := []int{flour.ID, milk.ID, salt.ID}
	for i, id := range order {
		if all[i].ProductID != id {
			t.Fatalf("position %d: expected product %d, got %d", i, id, all[i].ProductID)
		}
	}

	// supplier lead times: 5*10 + (5*14 - 5*10) = 70
	m := all[1]
	if m.ReorderPoint != 70 || m.Status != engine.StatusCritical || m.StockoutRisk != engine.RiskHigh {
		t.Errorf("unexpected milk recommendation %+v", m)
	}
	if all[0].Status != engine.StatusOutOfStock || all[0].OptimalOrderQuantity != 40 {
		t.Errorf("unexpected flour recommendation %+v", all[0])
	}

	needed, _ := f.planner.Recommendations(ctx, true)
	if len(needed) != 2 {
		t.Errorf("expected 2 products needing reorder, got %d", len(needed))
	}

	one, err := f.planner.Recommendation(ctx, salt.ID)
	if err != nil || one.Status != engine.StatusAdequate {
		t.Errorf("expected adequate salt, got %+v (%v)", one, err)
	}
	if _, err := f.planner.Recommendation(ctx, 404); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	beef := f.product(t, models.Product{Name: "Beef", ItemsPerCase: 10, CostPerCase: decimal.NewFromInt(200)})
	f.batch(t, models.InventoryBatch{ProductID: beef.ID, Quantity: 40})
	rice := f.product(t, models.Product{Name: "Rice", ItemsPerCase: 1, CostPerCase: decimal.NewFromInt(2)})
	f.batch(t, models.InventoryBatch{ProductID: rice.ID, Quantity: 100})

	got, err := f.planner.Report(ctx, ReportABC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	abc := got.(ABCReport)
	if !abc.TotalValue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected total 1000, got %s", abc.TotalValue)
	}
	if abc.Items[0].ProductID != beef.ID || abc.Items[0].Class != engine.ClassA {
		t.Errorf("expected beef class A, got %+v", abc.Items[0])
	}
	if abc.Items[1].Class != engine.ClassB {
		t.Errorf("expected rice class B at 20%%, got %+v", abc.Items[1])
	}

	got, err = f.planner.Report(ctx, ReportValuation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := got.(ValuationReport); len(v.Lines) != 2 || !v.TotalValue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected valuation %+v", v)
	}

	if _, err := f.planner.Report(ctx, ReportTurnover); !errors.Is(err, engine.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := f.planner.Report(ctx, "shrinkage"); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("expected ErrUnknownReport, got %v", err)
	}
}

func TestConsumptionHistory_Window(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Coffee"})
	f.consumeDaily(p.ID, 5, 2)

	today := engine.Day(now)
	got, err := f.inventory.ConsumptionHistory(ctx, p.ID, today.AddDate(0, 0, -3), today.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 days, got %d", len(got))
	}

	if _, err := f.inventory.ConsumptionHistory(ctx, p.ID, today, today.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestForecast_NonUTCClock(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	f := newFixtureAt(t, time.Date(2025, time.March, 10, 21, 0, 0, 0, est))
	ctx := context.Background()
	p := f.product(t, models.Product{Name: "Yogurt"})

	// Yesterday evening locally, today in UTC.
	f.movements.AddMovement(models.Movement{
		ProductID: p.ID,
		Kind:      models.MovementConsume,
		Delta:     -10,
		CreatedAt: time.Date(2025, time.March, 9, 22, 0, 0, 0, est).UTC(),
	})

	got, err := f.planner.Forecast(ctx, p.ID, ForecastRequest{HorizonDays: 1, LookbackDays: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DailyAverage != 10 || got.AsOf != "2025-03-10" {
		t.Errorf("expected 10 per day as of 2025-03-10, got %v as of %s", got.DailyAverage, got.AsOf)
	}

	history, err := f.inventory.ConsumptionHistory(ctx, p.ID,
		time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Quantity != 10 {
		t.Errorf("expected 10 units on 2025-03-09, got %+v", history)
	}
}

func TestRecommendation_StaleCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, models.Product{Name: "Rice", ReorderPoint: 5, MaxStock: 50})

	if _, err := f.planner.Recommendations(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Written behind the service's back, so the cached list misses it.
	late, err := f.products.Create(ctx, models.Product{Name: "Beans", ItemsPerCase: 1, ReorderPoint: 5, MaxStock: 50})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := f.planner.Recommendation(ctx, late.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProductID != late.ID || got.Status != engine.StatusOutOfStock {
		t.Errorf("unexpected recommendation %+v", got)
	}

	all, _ := f.planner.Recommendations(ctx, false)
	if len(all) != 2 {
		t.Errorf("expected the refreshed list to hold 2 products, got %d", len(all))
	}
}
