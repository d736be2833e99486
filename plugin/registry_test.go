package plugin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/treasury"
)

type recorder struct {
	name string

	mu       sync.Mutex
	added    []*item.Added
	updated  []*item.Updated
	statuses []*item.StatusUpdated
	inits    int
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnInit(context.Context, interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits++
	return nil
}

func (r *recorder) OnItemAdded(_ context.Context, evt *item.Added) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, evt)
	return nil
}

func (r *recorder) OnItemUpdated(_ context.Context, evt *item.Updated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, evt)
	return nil
}

func (r *recorder) OnItemStatusUpdated(_ context.Context, evt *item.StatusUpdated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, evt)
	return nil
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) OnFundsWithdrawn(context.Context, *treasury.Withdrawal) error {
	return errors.New("sink unavailable")
}

type panicking struct{}

func (panicking) Name() string { return "panicking" }

func (panicking) OnItemAdded(context.Context, *item.Added) error { panic("boom") }

type slow struct{}

func (slow) Name() string { return "slow" }

func (slow) OnItemUpdated(ctx context.Context, _ *item.Updated) error {
	time.Sleep(time.Second)
	return nil
}

func quietRegistry() *plugin.Registry {
	return plugin.NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := quietRegistry()
	if err := r.Register(&recorder{name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&recorder{name: "a"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if r.Count() != 1 {
		t.Errorf("Count: got %d, want 1", r.Count())
	}
	if r.Get("a") == nil || r.Get("missing") != nil {
		t.Error("Get returned the wrong plugin")
	}
}

func TestEmitDeliversOncePerPlugin(t *testing.T) {
	ctx := context.Background()
	r := quietRegistry()
	a, b := &recorder{name: "a"}, &recorder{name: "b"}
	_ = r.Register(a)
	_ = r.Register(b)

	r.EmitInit(ctx, nil)
	r.EmitItemAdded(ctx, &item.Added{ItemID: 1, Name: "Widget", Price: 100, Quantity: 50})
	r.EmitItemUpdated(ctx, &item.Updated{ItemID: 1, Price: 120, Quantity: 75, Status: item.StatusCreated})
	r.EmitItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 1, Status: item.StatusShipped})

	for _, rec := range []*recorder{a, b} {
		if rec.inits != 1 || len(rec.added) != 1 || len(rec.updated) != 1 || len(rec.statuses) != 1 {
			t.Errorf("%s: inits=%d added=%d updated=%d statuses=%d",
				rec.name, rec.inits, len(rec.added), len(rec.updated), len(rec.statuses))
		}
	}
	if a.added[0].Name != "Widget" || a.statuses[0].Status != item.StatusShipped {
		t.Errorf("payload mismatch: %+v %+v", a.added[0], a.statuses[0])
	}

	if got := len(r.List()); got != 2 {
		t.Errorf("List: got %d plugins", got)
	}
}

func TestEmitSurvivesFailingPlugins(t *testing.T) {
	ctx := context.Background()
	r := quietRegistry().WithTimeout(50 * time.Millisecond)
	rec := &recorder{name: "rec"}
	_ = r.Register(failing{})
	_ = r.Register(panicking{})
	_ = r.Register(slow{})
	_ = r.Register(rec)

	r.EmitFundsWithdrawn(ctx, &treasury.Withdrawal{To: "ops"})
	r.EmitItemAdded(ctx, &item.Added{ItemID: 9})

	start := time.Now()
	r.EmitItemUpdated(ctx, &item.Updated{ItemID: 9})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("slow plugin was not cut off: %s", elapsed)
	}

	if len(rec.added) != 1 || len(rec.updated) != 1 {
		t.Errorf("healthy plugin missed events: added=%d updated=%d", len(rec.added), len(rec.updated))
	}
}

// patient blocks each status hook until its context ends.
type patient struct {
	stopped chan error
}

func (patient) Name() string { return "patient" }

func (p patient) OnItemStatusUpdated(ctx context.Context, _ *item.StatusUpdated) error {
	<-ctx.Done()
	p.stopped <- ctx.Err()
	return ctx.Err()
}

func TestTimedOutHookIsCanceled(t *testing.T) {
	ctx := context.Background()
	r := quietRegistry().WithTimeout(20 * time.Millisecond)
	p := patient{stopped: make(chan error, 2)}
	rec := &recorder{name: "rec"}
	_ = r.Register(p)
	_ = r.Register(rec)

	r.EmitItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 1, Status: item.StatusShipped})

	// The abandoned hook has been told to stop before the next notification.
	select {
	case err := <-p.stopped:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("hook context: got %v, want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed-out hook was never canceled")
	}

	r.EmitItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 1, Status: item.StatusDelivered})
	<-p.stopped

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 2 ||
		rec.statuses[0].Status != item.StatusShipped ||
		rec.statuses[1].Status != item.StatusDelivered {
		t.Errorf("statuses out of order: %+v", rec.statuses)
	}
}

func TestCallerCancellationStopsHook(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := quietRegistry().WithTimeout(time.Minute)
	p := patient{stopped: make(chan error, 1)}
	_ = r.Register(p)

	time.AfterFunc(20*time.Millisecond, cancel)
	start := time.Now()
	r.EmitItemStatusUpdated(ctx, &item.StatusUpdated{ItemID: 1, Status: item.StatusCanceled})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("emit outlived its caller: %s", elapsed)
	}

	if err := <-p.stopped; !errors.Is(err, context.Canceled) {
		t.Errorf("hook context: got %v, want Canceled", err)
	}
}
