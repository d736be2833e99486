package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"

	// Registers the "pg" executor used by migrate.NewExecutorFor.
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"
)

// Migrations is the grove migration group for the itemledger store.
var Migrations = migrate.NewGroup("itemledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_itemledger_items",
			Version: "20261018000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS itemledger_items (
    id         BIGINT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    price      BIGINT NOT NULL,
    quantity   BIGINT NOT NULL DEFAULT 0,
    status     TEXT NOT NULL DEFAULT 'created',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT itemledger_items_status_check
        CHECK (status IN ('created', 'shipped', 'delivered', 'canceled'))
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
    id       SMALLINT PRIMARY KEY CHECK (id = 1),
    identity TEXT NOT NULL,
    bound_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
