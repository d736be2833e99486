package extension

import (
	"time"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/oracle"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/treasury"
)

// Option configures the itemledger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithOracle sets the price oracle, overriding oracle_url.
func WithOracle(o oracle.Oracle) Option {
	return func(e *Extension) {
		e.oracle = o
	}
}

// WithTreasury sets the vault that WithdrawFunds drains.
func WithTreasury(v treasury.Vault) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, itemledger.WithTreasury(v))
	}
}

// WithLedgerOption passes an itemledger.Option through to the ledger.
func WithLedgerOption(opt itemledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, itemledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithController sets the controller identity.
func WithController(controller string) Option {
	return func(e *Extension) { e.config.Controller = controller }
}

// WithOracleURL sets the HTTP price feed endpoint.
func WithOracleURL(url string) Option {
	return func(e *Extension) { e.config.OracleURL = url }
}

// WithOracleTimeout bounds a single price request.
func WithOracleTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.OracleTimeout = d }
}

// WithOracleMaxAge rejects feed readings older than d.
func WithOracleMaxAge(d time.Duration) Option {
	return func(e *Extension) { e.config.OracleMaxAge = d }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
