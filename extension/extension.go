// Package extension provides the Forge extension adapter for itemledger.
//
// It implements the forge.Extension interface to integrate the item ledger
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.itemledger" or
// "itemledger" keys.
package extension

import (
	"context"
	"errors"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/oracle"
	"github.com/xraph/itemledger/oracle/httpfeed"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "itemledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Controller-gated item catalog priced by an oracle"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

var (
	errNoController = errors.New("itemledger: controller is not configured")
	errNoOracle     = errors.New("itemledger: no oracle configured; set oracle_url or use WithOracle")
)

// Extension adapts the item ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *itemledger.Ledger
	store      store.Store
	oracle     oracle.Oracle
	ledgerOpts []itemledger.Option
}

// New creates a new itemledger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger.
// This is nil until Register is called.
func (e *Extension) Engine() *itemledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// builds the ledger, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	eng, err := e.buildLedger()
	if err != nil {
		return err
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*itemledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("itemledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("itemledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedger resolves the store and oracle and constructs the Ledger.
func (e *Extension) buildLedger() (*itemledger.Ledger, error) {
	if e.config.Controller == "" {
		return nil, errNoController
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	o, err := e.resolveOracle()
	if err != nil {
		return nil, err
	}

	return itemledger.New(access.Identity(e.config.Controller), o, e.store, e.buildLedgerOpts()...)
}

// resolveOracle prefers a programmatic oracle, then an HTTP feed built from
// oracle_url.
func (e *Extension) resolveOracle() (oracle.Oracle, error) {
	if e.oracle != nil {
		return e.oracle, nil
	}
	if e.config.OracleURL == "" {
		return nil, errNoOracle
	}

	feedOpts := []httpfeed.Option{
		httpfeed.WithHTTPClient(&http.Client{Timeout: e.config.OracleTimeout}),
	}
	if e.config.OracleMaxAge > 0 {
		feedOpts = append(feedOpts, httpfeed.WithMaxAge(e.config.OracleMaxAge))
	}
	e.oracle = httpfeed.New(e.config.OracleURL, feedOpts...)
	return e.oracle, nil
}

// buildLedgerOpts constructs itemledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []itemledger.Option {
	opts := make([]itemledger.Option, 0, len(e.ledgerOpts)+1)

	if e.config.DisableMigrate {
		opts = append(opts, itemledger.WithoutMigrate())
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("itemledger: configuration is required but not found in config files; " +
				"ensure 'extensions.itemledger' or 'itemledger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("itemledger: configuration loaded",
		forge.F("controller", e.config.Controller),
		forge.F("oracle_url", e.config.OracleURL),
		forge.F("oracle_timeout", e.config.OracleTimeout),
		forge.F("oracle_max_age", e.config.OracleMaxAge),
		forge.F("disable_migrate", e.config.DisableMigrate),
	)

	return nil
}

// configSource is the part of forge.ConfigManager used for loading.
type configSource interface {
	IsSet(key string) bool
	Bind(key string, target any) error
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	return bindConfig(e.App().Config(), e.Logger())
}

// bindConfig binds the first of "extensions.itemledger" and "itemledger"
// that is set and binds cleanly.
func bindConfig(cm configSource, logger forge.Logger) (Config, bool) {
	for _, key := range []string{"extensions.itemledger", "itemledger"} {
		if !cm.IsSet(key) {
			continue
		}

		var cfg Config
		err := cm.Bind(key, &cfg)
		if err == nil {
			logger.Debug("itemledger: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		logger.Warn("itemledger: failed to bind config",
			forge.F("key", key),
			forge.F("error", err.Error()),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.OracleTimeout == 0 {
		cfg.OracleTimeout = defaults.OracleTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Controller == "" {
		yamlConfig.Controller = programmaticConfig.Controller
	}
	if yamlConfig.OracleURL == "" {
		yamlConfig.OracleURL = programmaticConfig.OracleURL
	}

	// Duration fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.OracleTimeout == 0 {
		yamlConfig.OracleTimeout = programmaticConfig.OracleTimeout
	}
	if yamlConfig.OracleMaxAge == 0 {
		yamlConfig.OracleMaxAge = programmaticConfig.OracleMaxAge
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
