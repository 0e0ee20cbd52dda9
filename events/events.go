package events

import (
	"context"
	"errors"
)

// ChangeKind represents the type of mutation applied to a bet record
type ChangeKind string

const (
	ChangeKindCreated ChangeKind = "created"
	ChangeKindUpdated ChangeKind = "updated"
	ChangeKindDeleted ChangeKind = "deleted"
)

// BetRecordChange represents a single mutation of a user's bet slip. It
// carries identifiers only; subscribers re-read the authoritative state
// rather than merging payloads.
type BetRecordChange struct {
	UserID   string     `json:"userId"`
	RecordID string     `json:"recordId"`
	Kind     ChangeKind `json:"kind"`
}

// ErrSubscriptionClosed indicates the underlying change feed terminated
// abnormally. It is surfaced to the consumer as a terminal condition and is
// never retried automatically.
var ErrSubscriptionClosed = errors.New("change subscription closed")

// Subscription is a live stream of change notifications for one user
type Subscription interface {
	// Changes returns the notification channel. It is closed when the
	// subscription ends; Err reports whether that was abnormal.
	Changes() <-chan BetRecordChange

	// Err returns the terminal error, or nil after a clean Close
	Err() error

	// Close tears the subscription down. Safe to call more than once.
	Close() error
}

// Notifier is the change-notification half of the bet record store: every
// successful mutation is published, and each signed-in session holds at
// most one subscription for its user's scope.
type Notifier interface {
	Publish(ctx context.Context, change BetRecordChange) error
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}
