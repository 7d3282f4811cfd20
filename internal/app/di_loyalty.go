package app

import (
	"fmt"

	loyaltyHTTP "github.com/nailbliss/stampcard/internal/loyalty/http"
	loyaltyRepository "github.com/nailbliss/stampcard/internal/loyalty/repository"
	loyaltyUseCase "github.com/nailbliss/stampcard/internal/loyalty/usecase"
)

// LoyaltyRepository returns the loyalty repository based on database driver.
func (c *Container) LoyaltyRepository() (loyaltyUseCase.LoyaltyRepository, error) {
	var err error
	c.loyaltyRepositoryInit.Do(func() {
		c.loyaltyRepository, err = c.initLoyaltyRepository()
		if err != nil {
			c.setInitError("loyaltyRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("loyaltyRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.loyaltyRepository, nil
}

// CardUseCase returns the stamp card use case.
func (c *Container) CardUseCase() (loyaltyUseCase.CardUseCase, error) {
	var err error
	c.cardUseCaseInit.Do(func() {
		c.cardUseCase, err = c.initCardUseCase()
		if err != nil {
			c.setInitError("cardUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cardUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.cardUseCase, nil
}

// CardHandler returns the HTTP handler of the stamp card endpoint.
func (c *Container) CardHandler() (*loyaltyHTTP.CardHandler, error) {
	var err error
	c.cardHandlerInit.Do(func() {
		var cardUseCase loyaltyUseCase.CardUseCase
		cardUseCase, err = c.CardUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get card use case for card handler: %w", err)
			c.setInitError("cardHandler", err)
			return
		}
		c.cardHandler = loyaltyHTTP.NewCardHandler(cardUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cardHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.cardHandler, nil
}

func (c *Container) initLoyaltyRepository() (loyaltyUseCase.LoyaltyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for loyalty repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return loyaltyRepository.NewPostgreSQLLoyaltyRepository(db), nil
	case "mysql":
		return loyaltyRepository.NewMySQLLoyaltyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCardUseCase() (loyaltyUseCase.CardUseCase, error) {
	repository, err := c.LoyaltyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get loyalty repository for card use case: %w", err)
	}

	baseUseCase := loyaltyUseCase.NewCardUseCase(repository)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for card use case: %w", err)
		}
		return loyaltyUseCase.NewCardUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
