package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
	qrtokenHTTP "github.com/nailbliss/stampcard/internal/qrtoken/http"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
)

// TokenService returns the QR token service for the configured format.
func (c *Container) TokenService() (qrtokenService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.setInitError("tokenService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenService"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// Renderer returns the QR image renderer.
func (c *Container) Renderer() (render.Renderer, error) {
	var err error
	c.rendererInit.Do(func() {
		c.renderer, err = render.New(c.config.QRRenderer, c.config.QRRenderSize, c.config.QRRemoteRenderURL)
		if err != nil {
			c.setInitError("renderer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("renderer"); storedErr != nil {
		return nil, storedErr
	}
	return c.renderer, nil
}

// PresenterUseCase returns the QR presenter.
func (c *Container) PresenterUseCase() (qrtokenUseCase.PresenterUseCase, error) {
	var err error
	c.presenterUseCaseInit.Do(func() {
		c.presenterUseCase, err = c.initPresenterUseCase()
		if err != nil {
			c.setInitError("presenterUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("presenterUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.presenterUseCase, nil
}

// PresenterHandler returns the HTTP handler of the QR endpoints.
func (c *Container) PresenterHandler() (*qrtokenHTTP.PresenterHandler, error) {
	var err error
	c.presenterHandlerInit.Do(func() {
		var presenter qrtokenUseCase.PresenterUseCase
		presenter, err = c.PresenterUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get presenter use case for presenter handler: %w", err)
			c.setInitError("presenterHandler", err)
			return
		}
		c.presenterHandler = qrtokenHTTP.NewPresenterHandler(presenter, c.websocketOriginPatterns(), c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("presenterHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.presenterHandler, nil
}

func (c *Container) initTokenService() (qrtokenService.TokenService, error) {
	format, err := qrtokenDomain.ParseFormat(c.config.QRTokenFormat)
	if err != nil {
		return nil, err
	}

	var sealingKey []byte
	if c.config.QRTokenSealingKey != "" {
		sealingKey, err = qrtokenService.LoadSealingKey(
			context.Background(),
			c.config.QRTokenKeyURI,
			c.config.QRTokenSealingKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load token sealing key: %w", err)
		}
	}

	codec, err := qrtokenService.NewCodec(format, c.config.QRTokenObfuscationKey, sealingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	policy := qrtokenDomain.FreshnessPolicy{
		Window:  c.config.QRTokenFreshnessWindow,
		MaxSkew: c.config.QRTokenMaxClockSkew,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return qrtokenService.NewTokenService(codec, policy), nil
}

func (c *Container) initPresenterUseCase() (qrtokenUseCase.PresenterUseCase, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for presenter use case: %w", err)
	}
	renderer, err := c.Renderer()
	if err != nil {
		return nil, fmt.Errorf("failed to get renderer for presenter use case: %w", err)
	}

	baseUseCase := qrtokenUseCase.NewPresenterUseCase(tokenService, renderer)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for presenter use case: %w", err)
		}
		return qrtokenUseCase.NewPresenterUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// websocketOriginPatterns turns the CORS origins into the host patterns the stream upgrade
// accepts besides same-origin requests.
func (c *Container) websocketOriginPatterns() []string {
	if !c.config.CORSEnabled {
		return nil
	}
	var patterns []string
	for _, origin := range strings.Split(c.config.CORSAllowOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}
