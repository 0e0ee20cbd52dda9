package models

import "time"

// BetStatus represents the settlement state of a bet record
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// IsValid checks that the status is one of the known states
func (s BetStatus) IsValid() bool {
	return s == BetStatusPending || s == BetStatusWon || s == BetStatusLost
}

// IsTerminal checks whether the status is a settled outcome
func (s BetStatus) IsTerminal() bool {
	return s == BetStatusWon || s == BetStatusLost
}

// BetRecord represents one tracked wager in a user's bet slip
type BetRecord struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Title      string     `db:"title"`
	Sport      string     `db:"sport"`
	Game       string     `db:"game"`
	Sportsbook string     `db:"sportsbook"`
	Notes      string     `db:"notes"`
	Odds       string     `db:"odds"`
	Stake      float64    `db:"stake"`
	Status     BetStatus  `db:"status"`
	Profit     *float64   `db:"profit"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// BetRecordFields holds the user-supplied fields for a new bet record.
// ID, status, profit and timestamps are always assigned by the store.
type BetRecordFields struct {
	Title      string
	Sport      string
	Game       string
	Sportsbook string
	Notes      string
	Odds       string
	Stake      float64
}

// IsSettled checks whether the record has reached a terminal outcome
func (b *BetRecord) IsSettled() bool {
	return b.Status.IsTerminal()
}

// IsOwnedBy checks if a record belongs to the given user
func (b *BetRecord) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}
