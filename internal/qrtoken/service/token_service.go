package service

import (
	"time"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

type tokenService struct {
	codec  Codec
	policy qrtokenDomain.FreshnessPolicy
	now    func() time.Time
}

func (s *tokenService) Issue(customerID string) (string, *qrtokenDomain.Token, error) {
	token := qrtokenDomain.NewToken(customerID, s.now())
	raw, err := s.codec.Encode(token)
	if err != nil {
		return "", nil, err
	}
	return raw, token, nil
}

func (s *tokenService) Decode(raw string) (*qrtokenDomain.Token, error) {
	return s.DecodeAt(raw, s.now())
}

func (s *tokenService) Parse(raw string) (*qrtokenDomain.Token, error) {
	return s.codec.Decode(raw)
}

func (s *tokenService) DecodeAt(raw string, now time.Time) (*qrtokenDomain.Token, error) {
	token, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(token, now); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *tokenService) Policy() qrtokenDomain.FreshnessPolicy {
	return s.policy
}

// NewTokenService creates a TokenService using the wall clock.
func NewTokenService(codec Codec, policy qrtokenDomain.FreshnessPolicy) TokenService {
	return NewTokenServiceWithClock(codec, policy, time.Now)
}

// NewTokenServiceWithClock creates a TokenService reading time from now.
func NewTokenServiceWithClock(
	codec Codec,
	policy qrtokenDomain.FreshnessPolicy,
	now func() time.Time,
) TokenService {
	return &tokenService{codec: codec, policy: policy, now: now}
}
