// Package mocks provides testify mocks for the loyalty use case and repository.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// MockLoyaltyRepository is a mock implementation of LoyaltyRepository.
type MockLoyaltyRepository struct {
	mock.Mock
}

// GetProfile mocks LoyaltyRepository.GetProfile.
func (m *MockLoyaltyRepository) GetProfile(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.Profile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyaltyDomain.Profile), args.Error(1)
}

// GetLoyaltyCard mocks LoyaltyRepository.GetLoyaltyCard.
func (m *MockLoyaltyRepository) GetLoyaltyCard(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.LoyaltyCard, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyaltyDomain.LoyaltyCard), args.Error(1)
}

// AddLoyaltyPoint mocks LoyaltyRepository.AddLoyaltyPoint.
func (m *MockLoyaltyRepository) AddLoyaltyPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	args := m.Called(ctx, customerID, staffID)
	return args.Error(0)
}

// MockCardUseCase is a mock implementation of CardUseCase.
type MockCardUseCase struct {
	mock.Mock
}

// Snapshot mocks CardUseCase.Snapshot.
func (m *MockCardUseCase) Snapshot(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.CustomerSnapshot, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyaltyDomain.CustomerSnapshot), args.Error(1)
}

// AddPoint mocks CardUseCase.AddPoint.
func (m *MockCardUseCase) AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	args := m.Called(ctx, customerID, staffID)
	return args.Error(0)
}
