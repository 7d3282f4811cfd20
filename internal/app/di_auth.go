package app

import (
	"fmt"

	authRepository "github.com/nailbliss/stampcard/internal/auth/repository"
	authService "github.com/nailbliss/stampcard/internal/auth/service"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
)

// SessionTokenService returns the verifier and minter of session tokens.
func (c *Container) SessionTokenService() authService.SessionTokenService {
	c.sessionTokenServiceInit.Do(func() {
		c.sessionTokenService = authService.NewSessionTokenService(
			c.config.AuthJWTSecret,
			c.config.AuthJWTIssuer,
			c.config.AuthJWTAudience,
		)
	})
	return c.sessionTokenService
}

// AccountRepository returns the account repository based on database driver.
func (c *Container) AccountRepository() (authUseCase.AccountRepository, error) {
	var err error
	c.accountRepositoryInit.Do(func() {
		c.accountRepository, err = c.initAccountRepository()
		if err != nil {
			c.setInitError("accountRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accountRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.accountRepository, nil
}

// IdentityUseCase returns the identity use case.
func (c *Container) IdentityUseCase() (authUseCase.IdentityUseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.setInitError("identityUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("identityUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

func (c *Container) initAccountRepository() (authUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLAccountRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initIdentityUseCase() (authUseCase.IdentityUseCase, error) {
	if c.config.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for identity use case: %w", err)
	}

	baseUseCase := authUseCase.NewIdentityUseCase(accountRepository, c.SessionTokenService())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for identity use case: %w", err)
		}
		return authUseCase.NewIdentityUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
