package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"betslip/events"
	"betslip/models"
)

// MockBetRecordRepository is a mock implementation of BetRecordRepository
type MockBetRecordRepository struct {
	mock.Mock
}

func (m *MockBetRecordRepository) Create(ctx context.Context, userID string, fields models.BetRecordFields) (*models.BetRecord, error) {
	args := m.Called(ctx, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetRecord), args.Error(1)
}

func (m *MockBetRecordRepository) GetByID(ctx context.Context, userID, recordID string) (*models.BetRecord, error) {
	args := m.Called(ctx, userID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetRecord), args.Error(1)
}

func (m *MockBetRecordRepository) GetByUser(ctx context.Context, userID string) ([]*models.BetRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetRecord), args.Error(1)
}

func (m *MockBetRecordRepository) UpdateStatus(ctx context.Context, userID, recordID string, status models.BetStatus, profit *float64) error {
	args := m.Called(ctx, userID, recordID, status, profit)
	return args.Error(0)
}

func (m *MockBetRecordRepository) Delete(ctx context.Context, userID, recordID string) (bool, error) {
	args := m.Called(ctx, userID, recordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRecordRepository) GetStats(ctx context.Context, userID string) (*models.BetStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetStats), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	betRecordRepo BetRecordRepository

	// Published collects the change notifications stashed for commit so
	// tests can assert on them without expectation noise
	Published []events.BetRecordChange
}

// SetRepositories wires the repositories returned by the accessors
func (m *MockUnitOfWork) SetRepositories(betRecordRepo BetRecordRepository) {
	m.betRecordRepo = betRecordRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) BetRecordRepository() BetRecordRepository {
	return m.betRecordRepo
}

func (m *MockUnitOfWork) PublishChange(change events.BetRecordChange) {
	m.Published = append(m.Published, change)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
