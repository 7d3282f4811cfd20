// Package mocks provides testify mocks for the identity use case and its collaborators.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

// MockIdentityUseCase is a mock implementation of IdentityUseCase.
type MockIdentityUseCase struct {
	mock.Mock
}

// Resolve mocks IdentityUseCase.Resolve.
func (m *MockIdentityUseCase) Resolve(ctx context.Context, rawToken string) (*authDomain.Identity, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}

// MintSession mocks IdentityUseCase.MintSession.
func (m *MockIdentityUseCase) MintSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, ttl)
	return args.String(0), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// Get mocks AccountRepository.Get.
func (m *MockAccountRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

// MockSessionTokenService is a mock implementation of SessionTokenService.
type MockSessionTokenService struct {
	mock.Mock
}

// Verify mocks SessionTokenService.Verify.
func (m *MockSessionTokenService) Verify(rawToken string) (*authDomain.SessionClaims, error) {
	args := m.Called(rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionClaims), args.Error(1)
}

// Mint mocks SessionTokenService.Mint.
func (m *MockSessionTokenService) Mint(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	args := m.Called(userID, email, ttl)
	return args.String(0), args.Error(1)
}
