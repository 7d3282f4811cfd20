package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authService "github.com/nailbliss/stampcard/internal/auth/service"
)

type identityUseCase struct {
	accountRepo  AccountRepository
	tokenService authService.SessionTokenService
}

func (u *identityUseCase) Resolve(ctx context.Context, rawToken string) (*authDomain.Identity, error) {
	claims, err := u.tokenService.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	account, err := u.accountRepo.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, authDomain.ErrAccountNotFound) {
			return nil, authDomain.ErrInvalidSession
		}
		return nil, err
	}

	email := account.Email
	if email == "" {
		email = claims.Email
	}

	return &authDomain.Identity{
		ID:    account.ID,
		Email: email,
		Role:  account.Role,
	}, nil
}

func (u *identityUseCase) MintSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	account, err := u.accountRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.tokenService.Mint(account.ID, account.Email, ttl)
}

// NewIdentityUseCase creates an IdentityUseCase.
func NewIdentityUseCase(
	accountRepo AccountRepository,
	tokenService authService.SessionTokenService,
) IdentityUseCase {
	return &identityUseCase{
		accountRepo:  accountRepo,
		tokenService: tokenService,
	}
}
