package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

func TestLoadSealingKey_Plain(t *testing.T) {
	key := newKey(t)

	loaded, err := LoadSealingKey(context.Background(), "", base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, loaded)

	loaded, err = LoadSealingKey(context.Background(), "", base64.URLEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, loaded)
}

func TestLoadSealingKey_Wrapped(t *testing.T) {
	ctx := context.Background()
	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(newKey(t))

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() { assert.NoError(t, keeper.Close()) }()

	sealingKey := newKey(t)
	wrapped, err := keeper.Encrypt(ctx, sealingKey)
	require.NoError(t, err)

	loaded, err := LoadSealingKey(ctx, keyURI, base64.StdEncoding.EncodeToString(wrapped))
	require.NoError(t, err)
	assert.Equal(t, sealingKey, loaded)
}

func TestLoadSealingKey_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadSealingKey(ctx, "", "")
	assert.ErrorIs(t, err, qrtokenDomain.ErrInvalidKey)

	_, err = LoadSealingKey(ctx, "", "***")
	assert.ErrorIs(t, err, qrtokenDomain.ErrInvalidKey)

	_, err = LoadSealingKey(ctx, "invalid://uri", base64.StdEncoding.EncodeToString([]byte("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open KMS keeper")

	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(newKey(t))
	_, err = LoadSealingKey(ctx, keyURI, base64.StdEncoding.EncodeToString([]byte("not wrapped")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unwrap sealing key")
}
