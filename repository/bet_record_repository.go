package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"betslip/database"
	"betslip/models"
	"betslip/service"
)

// queryable abstracts over a connection pool and a transaction so the same
// repository code runs inside and outside database.WithTransaction
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BetRecordRepository provides durable, per-user access to bet records.
// Ownership is enforced in every statement's WHERE clause; a caller can
// never reach another user's rows regardless of what ids it supplies.
type BetRecordRepository struct {
	q queryable
}

// NewBetRecordRepository creates a new bet record repository
func NewBetRecordRepository(db *database.DB) *BetRecordRepository {
	return &BetRecordRepository{q: db.Pool}
}

// NewBetRecordRepositoryWithTx creates a repository bound to a transaction
func NewBetRecordRepositoryWithTx(tx pgx.Tx) *BetRecordRepository {
	return &BetRecordRepository{q: tx}
}

const betRecordColumns = `id, user_id, title, sport, game, sportsbook, notes, odds, stake, status, profit, created_at, updated_at`

func scanBetRecord(row pgx.Row) (*models.BetRecord, error) {
	var record models.BetRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Title,
		&record.Sport,
		&record.Game,
		&record.Sportsbook,
		&record.Notes,
		&record.Odds,
		&record.Stake,
		&record.Status,
		&record.Profit,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create persists a new bet record for the given user. The id, timestamps
// and initial pending status are assigned here, never by the caller.
func (r *BetRecordRepository) Create(ctx context.Context, userID string, fields models.BetRecordFields) (*models.BetRecord, error) {
	query := `
		INSERT INTO bet_records (id, user_id, title, sport, game, sportsbook, notes, odds, stake, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + betRecordColumns

	record, err := scanBetRecord(r.q.QueryRow(ctx, query,
		uuid.NewString(),
		userID,
		fields.Title,
		fields.Sport,
		fields.Game,
		fields.Sportsbook,
		fields.Notes,
		fields.Odds,
		fields.Stake,
		models.BetStatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create bet record for user %s: %w", userID, err)
	}

	return record, nil
}

// GetByID retrieves one of the user's bet records. Returns nil when the
// record does not exist or belongs to a different user.
func (r *BetRecordRepository) GetByID(ctx context.Context, userID, recordID string) (*models.BetRecord, error) {
	query := `
		SELECT ` + betRecordColumns + `
		FROM bet_records
		WHERE id = $1 AND user_id = $2
	`

	record, err := scanBetRecord(r.q.QueryRow(ctx, query, recordID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet record %s: %w", recordID, err)
	}

	return record, nil
}

// GetByUser returns the user's full collection ordered by creation time,
// newest first. The ordering is part of the store contract; consumers never
// re-sort.
func (r *BetRecordRepository) GetByUser(ctx context.Context, userID string) ([]*models.BetRecord, error) {
	query := `
		SELECT ` + betRecordColumns + `
		FROM bet_records
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet records for user %s: %w", userID, err)
	}
	defer rows.Close()

	records := make([]*models.BetRecord, 0)
	for rows.Next() {
		record, err := scanBetRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bet records for user %s: %w", userID, err)
	}

	return records, nil
}

// UpdateStatus sets a record's settlement status. Status and profit are
// written in a single statement so a won record is never observable without
// its profit; profit is cleared for any non-won status, including a won
// record transitioning back. The store never computes profit itself.
func (r *BetRecordRepository) UpdateStatus(ctx context.Context, userID, recordID string, status models.BetStatus, profit *float64) error {
	query := `
		UPDATE bet_records
		SET status = $1, profit = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`

	if status != models.BetStatusWon {
		profit = nil
	}

	result, err := r.q.Exec(ctx, query, status, profit, recordID, userID)
	if err != nil {
		return fmt.Errorf("failed to update bet record %s: %w", recordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet record %s: %w", recordID, service.ErrNotFound)
	}

	return nil
}

// Delete removes one of the user's bet records. Returns false without error
// when the record was already gone.
func (r *BetRecordRepository) Delete(ctx context.Context, userID, recordID string) (bool, error) {
	query := `
		DELETE FROM bet_records
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.q.Exec(ctx, query, recordID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bet record %s: %w", recordID, err)
	}

	return result.RowsAffected() > 0, nil
}

// GetStats returns aggregate statistics over the user's bet slip
func (r *BetRecordRepository) GetStats(ctx context.Context, userID string) (*models.BetStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'won'),
			COUNT(*) FILTER (WHERE status = 'lost'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(profit) FILTER (WHERE status = 'won'), 0),
			COALESCE(SUM(stake) FILTER (WHERE status = 'lost'), 0),
			COALESCE(MAX(profit) FILTER (WHERE status = 'won'), 0),
			COALESCE(MAX(stake), 0)
		FROM bet_records
		WHERE user_id = $1
	`

	var stats models.BetStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets,
		&stats.PendingBets,
		&stats.WonBets,
		&stats.LostBets,
		&stats.TotalStaked,
		&stats.TotalProfit,
		&stats.TotalLost,
		&stats.BiggestWin,
		&stats.BiggestStake,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats for user %s: %w", userID, err)
	}

	return &stats, nil
}
