package service

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

// DefaultObfuscationKey is the suffix used by deployed customer apps.
const DefaultObfuscationKey = "nailbliss-2024"

type legacyPayload struct {
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// LegacyCodec reads and writes base64(JSON + obfuscation key). The suffix only obscures the
// payload; anyone can forge a legacy token.
type LegacyCodec struct {
	key string
}

// NewLegacyCodec creates a LegacyCodec. An empty key falls back to DefaultObfuscationKey.
func NewLegacyCodec(key string) *LegacyCodec {
	if key == "" {
		key = DefaultObfuscationKey
	}
	return &LegacyCodec{key: key}
}

func (c *LegacyCodec) Format() qrtokenDomain.Format {
	return qrtokenDomain.FormatLegacy
}

func (c *LegacyCodec) Encode(token *qrtokenDomain.Token) (string, error) {
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
	return base64.StdEncoding.EncodeToString(append(payload, c.key...)), nil
}

func (c *LegacyCodec) Decode(raw string) (*qrtokenDomain.Token, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, qrtokenDomain.ErrMalformedToken
	}

	body, ok := strings.CutSuffix(string(decoded), c.key)
	if !ok {
		return nil, qrtokenDomain.ErrMalformedToken
	}

	return parsePayload([]byte(body))
}

func parsePayload(body []byte) (*qrtokenDomain.Token, error) {
	var payload legacyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, qrtokenDomain.ErrMalformedToken
	}
	token := &qrtokenDomain.Token{
		CustomerID: payload.UserID,
		IssuedAt:   time.UnixMilli(payload.Timestamp),
	}
	if err := validateToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

func validateToken(token *qrtokenDomain.Token) error {
	if token == nil || strings.TrimSpace(token.CustomerID) == "" || token.IssuedAt.UnixMilli() <= 0 {
		return qrtokenDomain.ErrMalformedToken
	}
	return nil
}
