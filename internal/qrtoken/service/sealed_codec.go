package service

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

const sealedPrefix = "v2."

// sealedAAD binds ciphertexts to this token scheme so the key cannot be reused elsewhere.
var sealedAAD = []byte("stampcard/qrtoken/v2")

// SealedCodec writes "v2." + base64url(nonce || XChaCha20-Poly1305(payload)). Any change to
// the token makes Decode fail.
type SealedCodec struct {
	aead cipher.AEAD
}

// NewSealedCodec creates a SealedCodec from a 32 byte key.
func NewSealedCodec(key []byte) (*SealedCodec, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", qrtokenDomain.ErrInvalidKey, chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create XChaCha20-Poly1305 cipher: %w", err)
	}
	return &SealedCodec{aead: aead}, nil
}

func (c *SealedCodec) Format() qrtokenDomain.Format {
	return qrtokenDomain.FormatSealed
}

func (c *SealedCodec) Encode(token *qrtokenDomain.Token) (string, error) {
	if err := validateToken(token); err != nil {
		return "", err
	}
	payload, err := json.Marshal(legacyPayload{
		UserID:    token.CustomerID,
		Timestamp: token.IssuedAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(payload)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, payload, sealedAAD)

	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *SealedCodec) Decode(raw string) (*qrtokenDomain.Token, error) {
	encoded, ok := strings.CutPrefix(strings.TrimSpace(raw), sealedPrefix)
	if !ok {
		return nil, qrtokenDomain.ErrMalformedToken
	}
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(sealed) < c.aead.NonceSize()+c.aead.Overhead() {
		return nil, qrtokenDomain.ErrMalformedToken
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	payload, err := c.aead.Open(nil, nonce, ciphertext, sealedAAD)
	if err != nil {
		return nil, qrtokenDomain.ErrMalformedToken
	}
	return parsePayload(payload)
}

// IsSealed reports whether raw carries the sealed prefix.
func IsSealed(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), sealedPrefix)
}
