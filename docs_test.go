package itemledger_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/audit_hook"
	"github.com/xraph/itemledger/oracle"
	"github.com/xraph/itemledger/store/memory"
	treasurymem "github.com/xraph/itemledger/treasury/memory"
	"github.com/xraph/itemledger/types"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation compile and behave as described.
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		ctx := context.Background()

		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Price source (a fixed price for demo, use httpfeed in production)
		prices := oracle.NewStatic(100)

		// Treasury holding the proceeds
		vault := treasurymem.New("usd")
		_ = vault.Deposit(ctx, types.New(4900, "usd"))

		// Audit every mutation to the log
		audit := audithook.New(audithook.RecorderFunc(func(_ context.Context, evt *audithook.AuditEvent) error {
			log.Printf("audit: %s %s\n", evt.Action, evt.ResourceID)
			return nil
		}))

		// Initialize the ledger
		l, err := itemledger.New("ops@acme", prices, store,
			itemledger.WithLogger(slog.Default()),
			itemledger.WithTreasury(vault),
			itemledger.WithPlugin(audit),
		)
		if err != nil {
			t.Fatal(err)
		}

		// Start the engine
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// List a Widget at the oracle's price
		widget, err := l.CreateItem(ctx, "ops@acme", 1, "Widget", 50)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("created %s at %d\n", widget.Name, widget.Price)

		// Re-price and restock
		prices.Set(120)
		if _, err := l.UpdateItem(ctx, "ops@acme", 1, 75); err != nil {
			t.Fatal(err)
		}

		// Ship it
		if _, err := l.UpdateStatus(ctx, "ops@acme", 1, itemledger.StatusShipped); err != nil {
			t.Fatal(err)
		}

		// Sweep the treasury
		w, err := l.WithdrawFunds(ctx, "ops@acme")
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("withdrew %s to %s\n", w.Amount, w.To)
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		m1 := types.New(100, "USD") // currency is lowercased
		m2 := types.New(200, "usd")
		_ = types.Zero("usd")

		// Arithmetic never mixes currencies
		if _, err := m1.Add(m2); err != nil {
			t.Fatal(err)
		}
		if _, err := m1.Add(types.New(1, "eur")); err == nil {
			t.Error("expected currency mismatch")
		}

		// Formatting
		if got := m1.String(); got != "100 USD" {
			t.Errorf("String: got %q", got)
		}
	})
}
