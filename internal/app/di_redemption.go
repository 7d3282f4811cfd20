package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	redemptionHTTP "github.com/nailbliss/stampcard/internal/redemption/http"
	redemptionRepository "github.com/nailbliss/stampcard/internal/redemption/repository"
	redemptionUseCase "github.com/nailbliss/stampcard/internal/redemption/usecase"
)

// RedisClient returns the client of the replay ledger.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = redemptionRepository.NewRedisClient(context.Background(), c.config.RedisURL)
		if err != nil {
			c.setInitError("redisClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redisClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// ReplayGuard returns the Redis replay guard, or a no-op guard when the guard is disabled.
func (c *Container) ReplayGuard() (redemptionUseCase.ReplayGuard, error) {
	var err error
	c.replayGuardInit.Do(func() {
		c.replayGuard, err = c.initReplayGuard()
		if err != nil {
			c.setInitError("replayGuard", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("replayGuard"); storedErr != nil {
		return nil, storedErr
	}
	return c.replayGuard, nil
}

// RedemptionRegistry returns the per-staff coordinator registry. Its idle sweeper runs until
// ctx ends or the container shuts down.
func (c *Container) RedemptionRegistry(ctx context.Context) (*redemptionUseCase.Registry, error) {
	var err error
	c.registryInit.Do(func() {
		c.registry, err = c.initRedemptionRegistry(ctx)
		if err != nil {
			c.setInitError("registry", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("registry"); storedErr != nil {
		return nil, storedErr
	}
	return c.registry, nil
}

// RedemptionUseCase returns the redemption use case.
func (c *Container) RedemptionUseCase(ctx context.Context) (redemptionUseCase.RedemptionUseCase, error) {
	var err error
	c.redemptionUseCaseInit.Do(func() {
		c.redemptionUseCase, err = c.initRedemptionUseCase(ctx)
		if err != nil {
			c.setInitError("redemptionUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redemptionUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.redemptionUseCase, nil
}

// RedemptionHandler returns the HTTP handler of the redemption endpoints.
func (c *Container) RedemptionHandler(ctx context.Context) (*redemptionHTTP.RedemptionHandler, error) {
	var err error
	c.redemptionHandlerInit.Do(func() {
		var useCase redemptionUseCase.RedemptionUseCase
		useCase, err = c.RedemptionUseCase(ctx)
		if err != nil {
			err = fmt.Errorf("failed to get redemption use case for redemption handler: %w", err)
			c.setInitError("redemptionHandler", err)
			return
		}
		c.redemptionHandler = redemptionHTTP.NewRedemptionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redemptionHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.redemptionHandler, nil
}

func (c *Container) initReplayGuard() (redemptionUseCase.ReplayGuard, error) {
	if !c.config.ReplayGuardEnabled {
		return redemptionRepository.NoopReplayGuard{}, nil
	}
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for replay guard: %w", err)
	}
	return redemptionRepository.NewRedisReplayGuard(client), nil
}

func (c *Container) initRedemptionRegistry(ctx context.Context) (*redemptionUseCase.Registry, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for redemption registry: %w", err)
	}
	cardUseCase, err := c.CardUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get card use case for redemption registry: %w", err)
	}
	guard, err := c.ReplayGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to get replay guard for redemption registry: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for redemption registry: %w", err)
	}

	registry := redemptionUseCase.NewRegistry(
		tokenService,
		cardUseCase,
		guard,
		businessMetrics,
		c.config.RedemptionIdleTimeout,
		c.Logger(),
	)
	registry.Start(ctx)
	return registry, nil
}

func (c *Container) initRedemptionUseCase(ctx context.Context) (redemptionUseCase.RedemptionUseCase, error) {
	registry, err := c.RedemptionRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for redemption use case: %w", err)
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for redemption use case: %w", err)
		}
		return redemptionUseCase.NewRedemptionUseCaseWithMetrics(registry, businessMetrics), nil
	}

	return registry, nil
}
