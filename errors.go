package itemledger

import (
	"errors"
	"fmt"

	"github.com/xraph/itemledger/access"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("itemledger: not found")
	ErrInvalidInput = errors.New("itemledger: invalid input")

	// ErrUnauthorized is returned when a mutation is attempted by anyone
	// other than the controller. It is the access package's error, so
	// errors.Is works against either name.
	ErrUnauthorized       = access.ErrUnauthorized
	ErrControllerMismatch = errors.New("itemledger: store is bound to a different controller")

	// Item errors
	ErrDuplicateItem    = errors.New("itemledger: item already exists")
	ErrItemNotFound     = errors.New("itemledger: item not found")
	ErrInvalidStatus    = errors.New("itemledger: invalid status")
	ErrPriceUnavailable = errors.New("itemledger: price unavailable")

	// Treasury errors
	ErrTreasuryNotConfigured = errors.New("itemledger: treasury not configured")

	// Store errors
	ErrStoreClosed     = errors.New("itemledger: store is closed")
	ErrMigrationFailed = errors.New("itemledger: migration failed")
)

// ValidationError represents a validation failure with details.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("itemledger: validation failed for %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsAccessError returns true if the caller or the process identity was
// rejected.
func IsAccessError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrControllerMismatch)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPriceUnavailable)
}
