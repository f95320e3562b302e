package db

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/rogerio-castellano/grocery-inventory/internal/config"
	"go.uber.org/zap"
)

func TestLoadMigrations_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte("SELECT 2")},
		"m/0001_first.sql":  {Data: []byte("SELECT 1")},
		"m/README.md":       {Data: []byte("ignored")},
	}

	got, err := LoadMigrations(fsys, "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[1].Version != 2 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestLoadMigrations_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no underscore", fstest.MapFS{"m/0001.sql": {Data: []byte("")}}},
		{"bad version", fstest.MapFS{"m/one_first.sql": {Data: []byte("")}}},
		{"duplicate version", fstest.MapFS{
			"m/0001_a.sql": {Data: []byte("")},
			"m/0001_b.sql": {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMigrations(tt.fsys, "m"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := LoadMigrations(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, m := range got {
		if m.Version != i+1 {
			t.Errorf("expected contiguous versions, got %d at %d", m.Version, i)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, zap.NewNop()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count: %v", err)
	}
	all, _ := LoadMigrations(migrationFiles, "migrations")
	if count != len(all) {
		t.Errorf("expected %d recorded migrations, got %d", len(all), count)
	}
}
