package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"betslip/database"
	"betslip/events"
	"betslip/service"
)

// unitOfWork implements service.UnitOfWork. Change notifications published
// during the transaction are held back and delivered only after a
// successful commit, so no session ever observes a change that was rolled
// back.
type unitOfWork struct {
	db       *database.DB
	notifier events.Notifier
	tx       pgx.Tx
	ctx      context.Context
	pending  []events.BetRecordChange

	betRecordRepo *BetRecordRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	notifier events.Notifier
}

// NewUnitOfWorkFactory creates a UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, notifier events.Notifier) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		notifier: notifier,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:       f.db,
		notifier: f.notifier,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.betRecordRepo = NewBetRecordRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending change notifications
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// Notifications are decoupled from the transaction context: the commit
	// already happened, so delivery should not be cancelled with it. A
	// failed publish is logged, not returned; the mutation stands and other
	// sessions catch up on their next notification.
	for _, change := range u.pending {
		if err := u.notifier.Publish(context.Background(), change); err != nil {
			log.WithFields(log.Fields{
				"userId":   change.UserID,
				"recordId": change.RecordID,
				"kind":     change.Kind,
				"error":    err,
			}).Warn("Failed to publish change notification after commit")
		}
	}
	u.pending = nil

	return nil
}

// Rollback aborts the transaction and discards pending notifications.
// Calling it after a successful Commit is a no-op, which lets callers use
// defer uow.Rollback().
func (u *unitOfWork) Rollback() error {
	u.pending = nil

	if u.tx == nil {
		return nil
	}

	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(u.ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// BetRecordRepository returns the bet record repository bound to this
// transaction
func (u *unitOfWork) BetRecordRepository() service.BetRecordRepository {
	if u.betRecordRepo == nil {
		panic("unit of work not started")
	}
	return u.betRecordRepo
}

// PublishChange stashes a change notification for delivery on Commit
func (u *unitOfWork) PublishChange(change events.BetRecordChange) {
	u.pending = append(u.pending, change)
}
