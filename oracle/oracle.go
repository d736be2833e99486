// Package oracle defines the price capability the ledger consumes.
//
// The ledger reads only Reading.Price and rejects anything that is not
// strictly positive. Staleness, round completeness and liveness checks are
// the adapter's business; see the httpfeed subpackage.
package oracle

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoReading is returned by adapters that have nothing to report yet.
var ErrNoReading = errors.New("oracle: no reading available")

// Reading is one attested price observation.
type Reading struct {
	Price           int64     `json:"price"`
	RoundID         uint64    `json:"round_id"`
	AnsweredInRound uint64    `json:"answered_in_round"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Oracle supplies the latest attested price.
type Oracle interface {
	LatestPrice(ctx context.Context) (Reading, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context) (Reading, error)

// LatestPrice implements Oracle.
func (f Func) LatestPrice(ctx context.Context) (Reading, error) {
	return f(ctx)
}

// Static reports a price set by the caller. Every Set starts a new round.
// It is safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	reading Reading
	err     error
	now     func() time.Time
}

// NewStatic creates a Static oracle reporting price.
func NewStatic(price int64) *Static {
	s := &Static{now: time.Now}
	s.Set(price)
	return s
}

// Set publishes a new price and clears any failure set with Fail.
func (s *Static) Set(price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC()
	round := s.reading.RoundID + 1
	s.reading = Reading{
		Price:           price,
		RoundID:         round,
		AnsweredInRound: round,
		StartedAt:       t,
		UpdatedAt:       t,
	}
	s.err = nil
}

// Fail makes subsequent LatestPrice calls return err until the next Set.
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// LatestPrice implements Oracle.
func (s *Static) LatestPrice(_ context.Context) (Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return Reading{}, s.err
	}
	return s.reading, nil
}
