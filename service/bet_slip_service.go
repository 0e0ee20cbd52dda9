package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"betslip/events"
	"betslip/identity"
	"betslip/metrics"
	"betslip/models"
	"betslip/oddsmath"
)

type betSlipService struct {
	uowFactory UnitOfWorkFactory
	ident      identity.Provider
}

// NewBetSlipService creates a new bet slip service
func NewBetSlipService(uowFactory UnitOfWorkFactory, ident identity.Provider) BetSlipService {
	return &betSlipService{
		uowFactory: uowFactory,
		ident:      ident,
	}
}

// currentUser resolves the signed-in user or fails with ErrAuthRequired
func (s *betSlipService) currentUser() (string, error) {
	userID, ok := s.ident.CurrentUserID()
	if !ok {
		return "", ErrAuthRequired
	}
	return userID, nil
}

// AddBet creates a new pending bet for the signed-in user
func (s *betSlipService) AddBet(ctx context.Context, fields models.BetRecordFields) (string, error) {
	userID, err := s.currentUser()
	if err != nil {
		return "", err
	}

	// Validate before touching the store so a rejected bet never mutates
	// anything
	if strings.TrimSpace(fields.Title) == "" {
		return "", fmt.Errorf("bet title is required")
	}
	if fields.Stake <= 0 {
		return "", fmt.Errorf("%w: must be > 0, got %v", oddsmath.ErrInvalidStake, fields.Stake)
	}
	if _, err := oddsmath.ParseAmerican(fields.Odds); err != nil {
		return "", err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.BetRecordRepository().Create(ctx, userID, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create bet: %w", err)
	}

	uow.PublishChange(events.BetRecordChange{
		UserID:   userID,
		RecordID: record.ID,
		Kind:     events.ChangeKindCreated,
	})

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.BetsCreated.Inc()

	entry := log.WithFields(log.Fields{
		"userId":   userID,
		"recordId": record.ID,
		"odds":     record.Odds,
		"stake":    record.Stake,
	})
	if prob, perr := oddsmath.ImpliedProbability(record.Odds); perr == nil {
		entry = entry.WithField("impliedProbability", prob)
	}
	entry.Info("Added bet to slip")

	return record.ID, nil
}

// SettleBet transitions a bet to won or lost, computing profit for wins.
// Status and profit are written in one transaction: an odds or stake
// validation failure aborts the settlement and leaves the record untouched.
func (s *betSlipService) SettleBet(ctx context.Context, recordID string, outcome models.BetStatus) (*models.BetRecord, error) {
	if outcome != models.BetStatusWon && outcome != models.BetStatusLost {
		return nil, fmt.Errorf("settlement outcome must be won or lost, got %q", outcome)
	}

	userID, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.BetRecordRepository()

	record, err := repo.GetByID(ctx, userID, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("bet %s: %w", recordID, ErrNotFound)
	}

	var profit *float64
	if outcome == models.BetStatusWon {
		computed, err := oddsmath.ComputeProfit(record.Odds, record.Stake)
		if err != nil {
			// A won status is never persisted without a valid profit; the
			// record keeps its prior status and profit.
			metrics.SettlementFailures.Inc()
			return nil, fmt.Errorf("cannot settle bet %s as won: %w", recordID, err)
		}
		profit = &computed
	}

	if err := repo.UpdateStatus(ctx, userID, recordID, outcome, profit); err != nil {
		return nil, fmt.Errorf("failed to settle bet: %w", err)
	}

	settled, err := repo.GetByID(ctx, userID, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to read settled bet: %w", err)
	}

	uow.PublishChange(events.BetRecordChange{
		UserID:   userID,
		RecordID: recordID,
		Kind:     events.ChangeKindUpdated,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.BetsSettled.WithLabelValues(string(outcome)).Inc()

	log.WithFields(log.Fields{
		"userId":   userID,
		"recordId": recordID,
		"outcome":  outcome,
	}).Info("Settled bet")

	return settled, nil
}

// RemoveBet deletes one of the signed-in user's bets. A record already gone
// (for example removed by a concurrent session) is reported as ErrNotFound;
// callers treat that as informational, not fatal.
func (s *betSlipService) RemoveBet(ctx context.Context, recordID string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.BetRecordRepository().Delete(ctx, userID, recordID)
	if err != nil {
		return fmt.Errorf("failed to remove bet: %w", err)
	}
	if !deleted {
		log.WithFields(log.Fields{
			"userId":   userID,
			"recordId": recordID,
		}).Info("Bet already removed")
		return fmt.Errorf("bet %s: %w", recordID, ErrNotFound)
	}

	uow.PublishChange(events.BetRecordChange{
		UserID:   userID,
		RecordID: recordID,
		Kind:     events.ChangeKindDeleted,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.BetsRemoved.Inc()

	return nil
}

// ClearAll removes every currently-known bet with one independent deletion
// per record. There is no rollback: deletions that succeeded stay deleted,
// and the records that survive are reported in a PartialFailureError.
func (s *betSlipService) ClearAll(ctx context.Context) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}

	records, err := s.ListBets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bets for clear: %w", err)
	}

	var failedIDs []string
	for _, record := range records {
		if err := s.deleteOne(ctx, userID, record.ID); err != nil {
			log.WithFields(log.Fields{
				"userId":   userID,
				"recordId": record.ID,
				"error":    err,
			}).Warn("Failed to delete bet during clear")
			failedIDs = append(failedIDs, record.ID)
		}
	}

	if len(failedIDs) > 0 {
		return &PartialFailureError{
			Attempted: len(records),
			FailedIDs: failedIDs,
		}
	}

	return nil
}

// deleteOne runs a single independent deletion with its own transaction and
// notification
func (s *betSlipService) deleteOne(ctx context.Context, userID, recordID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.BetRecordRepository().Delete(ctx, userID, recordID)
	if err != nil {
		return err
	}

	// A record another session already removed counts as satisfied
	if deleted {
		uow.PublishChange(events.BetRecordChange{
			UserID:   userID,
			RecordID: recordID,
			Kind:     events.ChangeKindDeleted,
		})
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if deleted {
		metrics.BetsRemoved.Inc()
	}

	return nil
}

// ListBets returns the signed-in user's collection, newest first
func (s *betSlipService) ListBets(ctx context.Context) ([]*models.BetRecord, error) {
	userID, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.BetRecordRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return records, nil
}
