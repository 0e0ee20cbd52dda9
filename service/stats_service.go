package service

import (
	"context"
	"fmt"

	"betslip/identity"
	"betslip/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
	ident      identity.Provider
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory, ident identity.Provider) StatsService {
	return &statsService{
		uowFactory: uowFactory,
		ident:      ident,
	}
}

// GetUserStats returns aggregate statistics for the signed-in user's slip
func (s *statsService) GetUserStats(ctx context.Context) (*models.BetStats, error) {
	userID, ok := s.ident.CurrentUserID()
	if !ok {
		return nil, ErrAuthRequired
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.BetRecordRepository().GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet stats: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stats, nil
}
