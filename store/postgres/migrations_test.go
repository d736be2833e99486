package postgres

import (
	"testing"

	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"
)

func TestMigrationExecutorRegistered(t *testing.T) {
	exec, err := migrate.NewExecutorFor(pgdriver.New())
	if err != nil {
		t.Fatalf("NewExecutorFor: %v", err)
	}
	if exec == nil {
		t.Fatal("nil executor")
	}
}

func TestMigrationVersionsAscend(t *testing.T) {
	ms := Migrations.Migrations()
	if len(ms) != 2 {
		t.Fatalf("migrations: got %d, want 2", len(ms))
	}
	for k := 1; k < len(ms); k++ {
		if ms[k-1].Version >= ms[k].Version {
			t.Errorf("%s (%s) does not precede %s (%s)", ms[k-1].Name, ms[k-1].Version, ms[k].Name, ms[k].Version)
		}
	}
}
