package audithook

// Action constants for audit events.
const (
	// Item actions
	ActionItemAdded         = "item.added"
	ActionItemUpdated       = "item.updated"
	ActionItemStatusUpdated = "item.status_updated"

	// Treasury actions
	ActionFundsWithdrawn = "funds.withdrawn"

	// Ledger lifecycle actions
	ActionLedgerStarted = "ledger.started"
	ActionLedgerStopped = "ledger.stopped"
)

// Resource constants for audit events.
const (
	ResourceItem     = "item"
	ResourceTreasury = "treasury"
	ResourceLedger   = "ledger"
)

// Category constants for audit events.
const (
	CategoryCatalog   = "catalog"
	CategoryTreasury  = "treasury"
	CategoryLifecycle = "lifecycle"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
)
