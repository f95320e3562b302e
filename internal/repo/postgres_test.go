package repo

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/grocery-inventory/internal/config"
	"github.com/rogerio-castellano/grocery-inventory/internal/db"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Connect(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 10})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(ctx, conn, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec(`TRUNCATE movements, inventory_batches, products, suppliers, categories RESTART IDENTITY CASCADE`)
		conn.Close()
	})
	return conn
}

func TestPostgresBatch_Lifecycle(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	products := NewPostgresProductRepository(conn)
	batches := NewPostgresBatchRepository(conn)
	movements := NewPostgresMovementRepository(conn)

	p, err := products.Create(ctx, models.Product{Name: "Milk", ItemsPerCase: 12, CostPerCase: decimal.RequireFromString("18.60")})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	expires := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	b, err := batches.Create(ctx, models.InventoryBatch{
		ProductID:      p.ID,
		Quantity:       10,
		ExpirationDate: &expires,
		ReceivedDate:   time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC),
	}, "clerk")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	if _, err := batches.AdjustQuantity(ctx, BatchAdjustment{BatchID: b.ID, Delta: -11, Kind: models.MovementConsume}); !errors.Is(err, ErrInvalidQuantityChange) {
		t.Fatalf("expected ErrInvalidQuantityChange, got %v", err)
	}
	if _, err := batches.AdjustQuantity(ctx, BatchAdjustment{BatchID: b.ID + 1000, Delta: -1, Kind: models.MovementConsume}); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}

	got, err := batches.AdjustQuantity(ctx, BatchAdjustment{BatchID: b.ID, Delta: -4, Kind: models.MovementConsume, Actor: "clerk"})
	if err != nil || got.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d (%v)", got.Quantity, err)
	}

	emptied, err := batches.MarkEmpty(ctx, b.ID, "clerk")
	if err != nil || emptied.Quantity != 0 {
		t.Fatalf("expected empty batch, got %d (%v)", emptied.Quantity, err)
	}

	moves, total, err := movements.GetByProductID(ctx, p.ID, MovementFilter{})
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if total != 3 || moves[0].Kind != models.MovementEmpty || moves[0].Delta != -6 {
		t.Errorf("unexpected movements %+v", moves)
	}

	history, err := movements.ConsumptionHistory(ctx, p.ID, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	if err != nil || len(history) != 1 || history[0].Quantity != 4 {
		t.Errorf("expected one day of 4 consumed, got %+v (%v)", history, err)
	}

	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := batches.GetByID(ctx, b.ID); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("expected cascade delete, got %v", err)
	}
}

func TestPostgresBatch_ConcurrentAdjustments(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	products := NewPostgresProductRepository(conn)
	batches := NewPostgresBatchRepository(conn)

	p, _ := products.Create(ctx, models.Product{Name: "Flour", ItemsPerCase: 1})
	b, err := batches.Create(ctx, models.InventoryBatch{ProductID: p.ID, Quantity: 20, ReceivedDate: time.Now()}, "")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = batches.AdjustQuantity(ctx, BatchAdjustment{BatchID: b.ID, Delta: -1, Kind: models.MovementConsume})
		}()
	}
	wg.Wait()

	got, _ := batches.GetByID(ctx, b.ID)
	if got.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", got.Quantity)
	}
}

func TestPostgresProduct_InvalidReference(t *testing.T) {
	conn := openTestDB(t)
	missing := 999
	_, err := NewPostgresProductRepository(conn).Create(context.Background(), models.Product{Name: "Ghost", ItemsPerCase: 1, CategoryID: &missing})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestZoneName(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"utc", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "UTC"},
		{"east of greenwich", time.Date(2025, 3, 10, 0, 0, 0, 0, time.FixedZone("", 5*3600+30*60)), "-05:30"},
		{"west of greenwich", time.Date(2025, 3, 10, 0, 0, 0, 0, time.FixedZone("", -5*3600)), "+05:00"},
		{"unknown abbreviation", time.Date(2025, 3, 10, 0, 0, 0, 0, time.FixedZone("NOPE-ZONE", -3*3600)), "+03:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zoneName(tt.at); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
