package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"

	// Register the KMS drivers a sealing key may be wrapped with.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadSealingKey decodes base64 key material. When keyURI is set the material is a
// ciphertext produced by that keeper (gcpkms://, awskms://, azurekeyvault://, hashivault://,
// base64key://) and is decrypted before use.
func LoadSealingKey(ctx context.Context, keyURI, material string) ([]byte, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, fmt.Errorf("%w: key material is empty", qrtokenDomain.ErrInvalidKey)
	}

	decoded, err := decodeBase64(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qrtokenDomain.ErrInvalidKey, err)
	}

	if keyURI == "" {
		return decoded, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	key, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap sealing key: %w", err)
	}
	return key, nil
}

func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(value)
}

// NewCodec builds the codec set for a deployment: a MultiCodec encoding in format and able
// to decode legacy tokens always and sealed tokens whenever sealingKey is present.
func NewCodec(format qrtokenDomain.Format, obfuscationKey string, sealingKey []byte) (*MultiCodec, error) {
	legacy := NewLegacyCodec(obfuscationKey)

	var sealed Codec
	if len(sealingKey) > 0 {
		codec, err := NewSealedCodec(sealingKey)
		if err != nil {
			return nil, err
		}
		sealed = codec
	}

	switch format {
	case qrtokenDomain.FormatLegacy:
		return NewMultiCodec(legacy, legacy, sealed), nil
	case qrtokenDomain.FormatSealed:
		if sealed == nil {
			return nil, fmt.Errorf("%w: sealed format requires a sealing key", qrtokenDomain.ErrInvalidKey)
		}
		return NewMultiCodec(sealed, legacy, sealed), nil
	default:
		return nil, qrtokenDomain.ErrUnknownFormat
	}
}
