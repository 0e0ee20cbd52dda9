package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betslip/identity"
	"betslip/models"
)

func TestStatsService_GetUserStats(t *testing.T) {
	ctx := context.Background()

	mockFactory, mockUoW, mockRepo := newTestMocks()
	service := NewStatsService(mockFactory, signedIn("user-1"))

	stats := &models.BetStats{
		TotalBets:   4,
		PendingBets: 1,
		WonBets:     2,
		LostBets:    1,
		TotalStaked: 200,
		TotalProfit: 90,
		TotalLost:   50,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockRepo.On("GetStats", ctx, "user-1").Return(stats, nil)

	got, err := service.GetUserStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalBets)
	assert.InDelta(t, 66.67, got.WinPercentage(), 0.01)
	assert.Equal(t, 40.0, got.NetProfit())
}

func TestStatsService_GetUserStats_RequiresAuthentication(t *testing.T) {
	mockFactory, _, _ := newTestMocks()
	service := NewStatsService(mockFactory, identity.NewSessionManager())

	_, err := service.GetUserStats(context.Background())

	assert.ErrorIs(t, err, ErrAuthRequired)
	mockFactory.AssertNotCalled(t, "Create")
}
