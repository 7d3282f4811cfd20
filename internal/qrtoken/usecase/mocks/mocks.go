// Package mocks provides testify mocks for the presenter use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
)

// MockPresenterUseCase is a mock implementation of PresenterUseCase.
type MockPresenterUseCase struct {
	mock.Mock
}

// Issue mocks PresenterUseCase.Issue.
func (m *MockPresenterUseCase) Issue(
	ctx context.Context,
	identity *authDomain.Identity,
) (*qrtokenUseCase.Frame, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qrtokenUseCase.Frame), args.Error(1)
}

// Run mocks PresenterUseCase.Run.
func (m *MockPresenterUseCase) Run(
	ctx context.Context,
	source qrtokenUseCase.IdentitySource,
	display qrtokenUseCase.Display,
) error {
	args := m.Called(ctx, source, display)
	return args.Error(0)
}
