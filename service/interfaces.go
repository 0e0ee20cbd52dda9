package service

import (
	"context"

	"betslip/events"
	"betslip/models"
)

// BetRecordRepository defines the interface for bet record data access.
// Every operation is scoped to a user id; implementations enforce ownership
// at the storage boundary rather than trusting callers.
type BetRecordRepository interface {
	// Create persists a new record with store-assigned id, timestamps and
	// an initial pending status
	Create(ctx context.Context, userID string, fields models.BetRecordFields) (*models.BetRecord, error)

	// GetByID retrieves one of the user's records, nil when absent
	GetByID(ctx context.Context, userID, recordID string) (*models.BetRecord, error)

	// GetByUser returns the user's collection ordered created_at descending
	GetByUser(ctx context.Context, userID string) ([]*models.BetRecord, error)

	// UpdateStatus writes status and profit atomically; profit is only
	// persisted for a won status. Returns ErrNotFound when the record is
	// not the user's.
	UpdateStatus(ctx context.Context, userID, recordID string, status models.BetStatus, profit *float64) error

	// Delete removes a record, reporting whether a row was actually gone
	Delete(ctx context.Context, userID, recordID string) (bool, error)

	// GetStats returns aggregate statistics over the user's bet slip
	GetStats(ctx context.Context, userID string) (*models.BetStats, error)
}

// UnitOfWork provides transactional access to the repositories plus
// post-commit publication of change notifications: changes published during
// the transaction reach other sessions only after the commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// BetRecordRepository returns a repository bound to this transaction
	BetRecordRepository() BetRecordRepository

	// PublishChange stashes a change notification for delivery on Commit
	PublishChange(change events.BetRecordChange)
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// BetSlipService defines the user-facing bet slip operations
type BetSlipService interface {
	// AddBet creates a new pending bet for the signed-in user and returns
	// the new record id. ErrAuthRequired when signed out.
	AddBet(ctx context.Context, fields models.BetRecordFields) (string, error)

	// SettleBet transitions a pending bet to won or lost. A won outcome
	// computes profit from the record's odds and stake; computation
	// failures abort the settlement with the prior status intact.
	SettleBet(ctx context.Context, recordID string, outcome models.BetStatus) (*models.BetRecord, error)

	// RemoveBet deletes one bet. A missing record is reported as
	// ErrNotFound, which callers treat as informational.
	RemoveBet(ctx context.Context, recordID string) error

	// ClearAll deletes every currently-known bet, one deletion per record
	// with no rollback. Returns a PartialFailureError naming the records
	// that survive when some deletions fail.
	ClearAll(ctx context.Context) error

	// ListBets returns the signed-in user's current collection, newest
	// first
	ListBets(ctx context.Context) ([]*models.BetRecord, error)
}

// StatsService defines aggregate reporting over a user's bet slip
type StatsService interface {
	// GetUserStats returns aggregate statistics for the signed-in user
	GetUserStats(ctx context.Context) (*models.BetStats, error)
}
