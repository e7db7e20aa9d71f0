package storage

import (
	"context"
	"time"
)

// Storage defines the persistence operations the rest of the core relies on.
// Implementations must have converged their schema before being handed out.
type Storage interface {
	// Config operations
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Rate history operations
	SaveRateSnapshot(ctx context.Context, currencyID string, rate float64, day time.Time) error
	RateHistory(ctx context.Context, currencyID string, since time.Time) ([]RatePoint, error)
	PruneRateHistory(ctx context.Context, before time.Time) (int64, error)
	ClearRateHistory(ctx context.Context) error

	// Schema operations
	MigrationStatus(ctx context.Context) ([]MigrationStatus, error)

	// Database operations
	Close() error
}

// RatePoint is one recorded exchange rate for a currency on a calendar day
type RatePoint struct {
	CurrencyID string  `json:"currency_id"`
	Rate       float64 `json:"rate"`
	RecordedAt string  `json:"recorded_at"`
}

var _ Storage = (*SQLiteStorage)(nil)
