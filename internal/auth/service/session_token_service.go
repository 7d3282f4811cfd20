package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
)

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// jwtSessionTokenService handles HS256 tokens shared with the authentication provider.
type jwtSessionTokenService struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// Verify parses rawToken and returns the asserted subject.
func (s *jwtSessionTokenService) Verify(rawToken string) (*authDomain.SessionClaims, error) {
	if len(s.secret) == 0 || rawToken == "" {
		return nil, authDomain.ErrInvalidSession
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		options = append(options, jwt.WithAudience(s.audience))
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, options...)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidSession, err.Error())
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidSession, "subject is not a uuid")
	}

	result := &authDomain.SessionClaims{
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

// Mint signs a new session token.
func (s *jwtSessionTokenService) Mint(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", apperrors.New("session secret not configured")
	}
	if ttl <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "ttl must be positive")
	}

	now := s.now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign session token")
	}
	return signed, nil
}

// NewSessionTokenService creates an HS256 SessionTokenService. Empty issuer or audience
// disables the corresponding check.
func NewSessionTokenService(secret, issuer, audience string) SessionTokenService {
	return &jwtSessionTokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   30 * time.Second,
		now:      time.Now,
	}
}
