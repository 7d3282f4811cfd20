package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

func TestTokenService_FreshnessBoundary(t *testing.T) {
	issuedAt := time.UnixMilli(1714557600000)
	svc := NewTokenServiceWithClock(NewLegacyCodec(""), qrtokenDomain.DefaultFreshnessPolicy(),
		func() time.Time { return issuedAt })

	raw, token, err := svc.Issue("customer-x")
	require.NoError(t, err)
	assert.Equal(t, issuedAt, token.IssuedAt)

	got, err := svc.DecodeAt(raw, issuedAt.Add(59_999*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "customer-x", got.CustomerID)
	assert.Equal(t, issuedAt.UnixMilli(), got.IssuedAt.UnixMilli())

	_, err = svc.DecodeAt(raw, issuedAt.Add(60_001*time.Millisecond))
	assert.ErrorIs(t, err, qrtokenDomain.ErrExpiredToken)
	assert.Equal(t, "Invalid or expired code", err.Error())
}

func TestTokenService_DecodeUsesClock(t *testing.T) {
	now := time.UnixMilli(1714557600000)
	svc := NewTokenServiceWithClock(NewLegacyCodec(""), qrtokenDomain.DefaultFreshnessPolicy(),
		func() time.Time { return now })

	raw, _, err := svc.Issue("customer-x")
	require.NoError(t, err)

	_, err = svc.Decode(raw)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Decode(raw)
	assert.ErrorIs(t, err, qrtokenDomain.ErrExpiredToken)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(NewLegacyCodec(""), qrtokenDomain.DefaultFreshnessPolicy())

	_, err := svc.Decode("garbage")
	assert.ErrorIs(t, err, qrtokenDomain.ErrMalformedToken)

	_, _, err = svc.Issue("")
	assert.ErrorIs(t, err, qrtokenDomain.ErrMalformedToken)

	assert.Equal(t, qrtokenDomain.DefaultFreshnessWindow, svc.Policy().Window)
}

func TestTokenService_ParseIgnoresFreshness(t *testing.T) {
	issuedAt := time.UnixMilli(1714557600000)
	now := issuedAt
	svc := NewTokenServiceWithClock(NewLegacyCodec(""), qrtokenDomain.DefaultFreshnessPolicy(),
		func() time.Time { return now })

	raw, _, err := svc.Issue("customer-x")
	require.NoError(t, err)

	now = issuedAt.Add(10 * time.Minute)
	_, err = svc.Decode(raw)
	assert.ErrorIs(t, err, qrtokenDomain.ErrExpiredToken)

	token, err := svc.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, token.Age(now))

	_, err = svc.Parse("not-a-token")
	assert.ErrorIs(t, err, qrtokenDomain.ErrMalformedToken)
}
