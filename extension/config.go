package extension

import "time"

// Config holds the itemledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.itemledger" or "itemledger" keys).
type Config struct {
	// Controller is the identity allowed to mutate the ledger.
	Controller string `json:"controller" mapstructure:"controller" yaml:"controller"`

	// OracleURL is the HTTP price feed endpoint. Ignored when an oracle is
	// supplied with WithOracle.
	OracleURL string `json:"oracle_url" mapstructure:"oracle_url" yaml:"oracle_url"`

	// OracleTimeout bounds a single price request (default: 5s).
	OracleTimeout time.Duration `json:"oracle_timeout" mapstructure:"oracle_timeout" yaml:"oracle_timeout"`

	// OracleMaxAge rejects feed readings older than this. Zero disables the
	// staleness check.
	OracleMaxAge time.Duration `json:"oracle_max_age" mapstructure:"oracle_max_age" yaml:"oracle_max_age"`

	// DisableMigrate prevents auto-migration on start. The controller is
	// still bound.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OracleTimeout: 5 * time.Second,
	}
}
