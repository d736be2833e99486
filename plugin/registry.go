package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/treasury"
)

// DefaultTimeout bounds a single plugin call.
const DefaultTimeout = 5 * time.Second

// Registry holds registered plugins with their hook interfaces cached by type,
// so each Emit walks only the plugins that care about it.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	onInit              []OnInit
	onShutdown          []OnShutdown
	onItemAdded         []OnItemAdded
	onItemUpdated       []OnItemUpdated
	onItemStatusUpdated []OnItemStatusUpdated
	onFundsWithdrawn    []OnFundsWithdrawn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-call plugin timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin and caches the hooks it implements.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnItemAdded); ok {
		r.onItemAdded = append(r.onItemAdded, v)
	}
	if v, ok := p.(OnItemUpdated); ok {
		r.onItemUpdated = append(r.onItemUpdated, v)
	}
	if v, ok := p.(OnItemStatusUpdated); ok {
		r.onItemStatusUpdated = append(r.onItemStatusUpdated, v)
	}
	if v, ok := p.(OnFundsWithdrawn); ok {
		r.onFundsWithdrawn = append(r.onFundsWithdrawn, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedHooks(p),
	)

	return nil
}

// implementedHooks lists the hook interfaces p satisfies, for logging.
func implementedHooks(p Plugin) []string {
	var hooks []string
	v := reflect.TypeOf(p)

	check := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			hooks = append(hooks, name)
		}
	}

	check(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	check(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	check(reflect.TypeOf((*OnItemAdded)(nil)).Elem(), "OnItemAdded")
	check(reflect.TypeOf((*OnItemUpdated)(nil)).Elem(), "OnItemUpdated")
	check(reflect.TypeOf((*OnItemStatusUpdated)(nil)).Elem(), "OnItemStatusUpdated")
	check(reflect.TypeOf((*OnFundsWithdrawn)(nil)).Elem(), "OnFundsWithdrawn")

	return hooks
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnInit", func(ctx context.Context) error {
			return p.OnInit(ctx, ledger)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnShutdown", func(ctx context.Context) error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitItemAdded delivers an ItemAdded notification.
func (r *Registry) EmitItemAdded(ctx context.Context, evt *item.Added) {
	r.mu.RLock()
	plugins := r.onItemAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnItemAdded", func(ctx context.Context) error {
			return p.OnItemAdded(ctx, evt)
		})
	}
}

// EmitItemUpdated delivers an ItemUpdated notification.
func (r *Registry) EmitItemUpdated(ctx context.Context, evt *item.Updated) {
	r.mu.RLock()
	plugins := r.onItemUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnItemUpdated", func(ctx context.Context) error {
			return p.OnItemUpdated(ctx, evt)
		})
	}
}

// EmitItemStatusUpdated delivers an ItemStatusUpdated notification.
func (r *Registry) EmitItemStatusUpdated(ctx context.Context, evt *item.StatusUpdated) {
	r.mu.RLock()
	plugins := r.onItemStatusUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnItemStatusUpdated", func(ctx context.Context) error {
			return p.OnItemStatusUpdated(ctx, evt)
		})
	}
}

// EmitFundsWithdrawn delivers a FundsWithdrawn notification.
func (r *Registry) EmitFundsWithdrawn(ctx context.Context, w *treasury.Withdrawal) {
	r.mu.RLock()
	plugins := r.onFundsWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnFundsWithdrawn", func(ctx context.Context) error {
			return p.OnFundsWithdrawn(ctx, w)
		})
	}
}

// dispatch runs one hook and logs, but never returns, its failure.
func (r *Registry) dispatch(ctx context.Context, pluginName, hook string, fn func(context.Context) error) {
	if err := r.callWithTimeout(ctx, pluginName, fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", pluginName,
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins must not stall the ledger. The hook's context is canceled when the
// call returns, so a hook that honors it stops once it has been abandoned.
// A hook that ignores its context keeps running and may finish after later
// notifications.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func(context.Context) error) error {
	hookCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("plugin panic: %s: %v", pluginName, rec)
			}
		}()
		done <- fn(hookCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-hookCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("plugin timeout: %s", pluginName)
	}
}
