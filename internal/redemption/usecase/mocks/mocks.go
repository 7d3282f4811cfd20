// Package mocks provides testify mocks for the redemption use case and its collaborators.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
)

// MockRedemptionUseCase is a mock implementation of RedemptionUseCase.
type MockRedemptionUseCase struct {
	mock.Mock
}

// Scan mocks RedemptionUseCase.Scan.
func (m *MockRedemptionUseCase) Scan(
	ctx context.Context,
	staff *authDomain.Identity,
	raw string,
) (*redemptionDomain.Attempt, error) {
	args := m.Called(ctx, staff, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemptionDomain.Attempt), args.Error(1)
}

// Current mocks RedemptionUseCase.Current.
func (m *MockRedemptionUseCase) Current(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Attempt, error) {
	args := m.Called(ctx, staff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemptionDomain.Attempt), args.Error(1)
}

// Confirm mocks RedemptionUseCase.Confirm.
func (m *MockRedemptionUseCase) Confirm(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Result, error) {
	args := m.Called(ctx, staff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemptionDomain.Result), args.Error(1)
}

// Cancel mocks RedemptionUseCase.Cancel.
func (m *MockRedemptionUseCase) Cancel(
	ctx context.Context,
	staff *authDomain.Identity,
) (*redemptionDomain.Attempt, error) {
	args := m.Called(ctx, staff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redemptionDomain.Attempt), args.Error(1)
}

// MockLoyaltyService is a mock implementation of LoyaltyService.
type MockLoyaltyService struct {
	mock.Mock
}

// Snapshot mocks LoyaltyService.Snapshot.
func (m *MockLoyaltyService) Snapshot(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.CustomerSnapshot, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyaltyDomain.CustomerSnapshot), args.Error(1)
}

// AddPoint mocks LoyaltyService.AddPoint.
func (m *MockLoyaltyService) AddPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	args := m.Called(ctx, customerID, staffID)
	return args.Error(0)
}

// MockReplayGuard is a mock implementation of ReplayGuard.
type MockReplayGuard struct {
	mock.Mock
}

// Claim mocks ReplayGuard.Claim.
func (m *MockReplayGuard) Claim(ctx context.Context, token, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, token, owner, ttl)
	return args.Bool(0), args.Error(1)
}

// Release mocks ReplayGuard.Release.
func (m *MockReplayGuard) Release(ctx context.Context, token, owner string) error {
	args := m.Called(ctx, token, owner)
	return args.Error(0)
}
