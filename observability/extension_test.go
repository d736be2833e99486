package observability_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/observability"
	"github.com/xraph/itemledger/treasury"
	"github.com/xraph/itemledger/types"
)

func TestMetricsExtensionCounts(t *testing.T) {
	ctx := context.Background()
	factory := observability.NewPrometheusFactory(nil)
	m := observability.NewMetricsExtension(factory)

	_ = m.OnItemAdded(ctx, &item.Added{ItemID: 1, Price: 100, Quantity: 50})
	_ = m.OnItemAdded(ctx, &item.Added{ItemID: 2, Price: 100, Quantity: 5})
	_ = m.OnItemUpdated(ctx, &item.Updated{ItemID: 1, Price: 120, Quantity: 75})
	_ = m.OnItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 1, Status: item.StatusShipped})
	_ = m.OnItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 2, Status: item.StatusCanceled})
	_ = m.OnFundsWithdrawn(ctx, &treasury.Withdrawal{Amount: types.New(4900, "usd")})

	tests := []struct {
		name string
		c    observability.Counter
		want float64
	}{
		{"added", m.ItemAdded, 2},
		{"updated", m.ItemUpdated, 1},
		{"status_updated", m.ItemStatusUpdated, 2},
		{"shipped", m.StatusTransitions[item.StatusShipped], 1},
		{"canceled", m.StatusTransitions[item.StatusCanceled], 1},
		{"delivered", m.StatusTransitions[item.StatusDelivered], 0},
		{"withdrawn", m.FundsWithdrawn, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, ok := tt.c.(prometheus.Collector)
			if !ok {
				t.Fatalf("%T is not a prometheus collector", tt.c)
			}
			if got := testutil.ToFloat64(collector); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := testutil.CollectAndCount(factory.Registry(), "itemledger_item_price"); got != 1 {
		t.Errorf("itemledger_item_price series: got %d, want 1", got)
	}
}

func TestPrometheusFactoryReusesCollectors(t *testing.T) {
	factory := observability.NewPrometheusFactory(nil)

	// A second extension on the same factory must not re-register.
	_ = observability.NewMetricsExtension(factory)
	_ = observability.NewMetricsExtension(factory)

	a := factory.Counter("itemledger.item.added")
	b := factory.Counter("itemledger.item.added")
	if a != b {
		t.Error("factory returned two collectors for one name")
	}
}

func TestPrometheusHandler(t *testing.T) {
	factory := observability.NewPrometheusFactory(nil)
	m := observability.NewMetricsExtension(factory)
	_ = m.OnItemAdded(context.Background(), &item.Added{ItemID: 1, Price: 100, Quantity: 1})

	rec := httptest.NewRecorder()
	factory.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "itemledger_item_added 1") {
		t.Errorf("exposition missing counter:\n%s", body)
	}
}
