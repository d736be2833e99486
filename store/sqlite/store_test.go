package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/oracle"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/store/sqlite"
	"github.com/xraph/itemledger/store/storetest"
)

// openStore opens an unmigrated store on the database file at path.
func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()

	drv := sqlitedriver.New()
	if err := drv.Open(context.Background(), path); err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}
	return sqlite.New(db)
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := openStore(t, filepath.Join(t.TempDir(), "itemledger.db"))
		if err := s.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		return s
	})
}

func TestMigrateTwice(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "itemledger.db"))
	t.Cleanup(func() { _ = s.Close() })

	for run := 1; run <= 2; run++ {
		if err := s.Migrate(ctx); err != nil {
			t.Fatalf("Migrate run %d: %v", run, err)
		}
	}
}

func TestLedgerSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "itemledger.db")
	o := oracle.NewStatic(100)
	quiet := itemledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := itemledger.New("ops@acme", o, openStore(t, path), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := first.CreateItem(ctx, "ops@acme", 1, "Widget", 10); err != nil {
		t.Fatal(err)
	}
	if err := first.Stop(); err != nil {
		t.Fatal(err)
	}

	second, err := itemledger.New("ops@acme", o, openStore(t, path), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	t.Cleanup(func() { _ = second.Stop() })

	got, err := second.GetItem(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Widget" || got.Price != 100 || got.Status != item.StatusCreated {
		t.Errorf("item after restart: %+v", got)
	}
}
