package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"

	// Registers the "sqlite" executor used by migrate.NewExecutorFor.
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"
)

// Migrations is the grove migration group for the itemledger store (SQLite).
var Migrations = migrate.NewGroup("itemledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_itemledger_items",
			Version: "20261018000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS itemledger_items (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    price      INTEGER NOT NULL,
    quantity   INTEGER NOT NULL DEFAULT 0,
    status     TEXT NOT NULL DEFAULT 'created'
               CHECK (status IN ('created', 'shipped', 'delivered', 'canceled')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_itemledger_items_status ON itemledger_items (status, id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS itemledger_items`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_itemledger_controller",
			Version: "20261018000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS itemledger_controller (
    id       INTEGER PRIMARY KEY CHECK (id = 1),
    identity TEXT NOT NULL,
    bound_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS itemledger_controller`)
				return err
			},
		},
	)
}
