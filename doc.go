// Package itemledger tracks a catalog of tradeable items through a fixed
// lifecycle, prices them from an injected oracle, and lets a single
// controller identity mutate the catalog.
//
// Itemledger is designed as a library, not a service. It provides:
//
//   - A controller-gated catalog (create, update, status, withdraw)
//   - Oracle-stamped prices; a reading of zero or less is never stored
//   - Pluggable stores (memory, PostgreSQL, SQLite, MongoDB, Redis)
//   - Notifications to plugins: audit trail, Prometheus metrics, Kafka
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/itemledger"
//	    "github.com/xraph/itemledger/oracle/httpfeed"
//	    "github.com/xraph/itemledger/store/memory"
//	)
//
//	feed := httpfeed.New("https://prices.internal/latest", httpfeed.WithMaxAge(time.Minute))
//	l, err := itemledger.New("ops@acme", feed, memory.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	widget, err := l.CreateItem(ctx, "ops@acme", 1, "Widget", 50)
//
// # Lifecycle
//
// Items start as created and may then be shipped, delivered or canceled.
// No transition is refused: a delivered item can be set back to created.
//
// # Concurrency
//
// Mutations are serialized. The oracle query, the store write and the
// notification for one call complete before the next call starts, so
// plugins observe events in commit order.
//
// # TypeID
//
// Events and withdrawals carry TypeIDs:
//
//	evt_01h2xcejqtf2nbrexx3vqjhp41  // Event ID
//	wdr_01h455vb4pex5vsknk084sn02q  // Withdrawal ID
//
// Item ids are plain integers chosen by the controller.
package itemledger
