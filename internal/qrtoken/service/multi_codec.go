package service

import (
	qrtokenDomain "github.com/nailbliss/stampcard/internal/qrtoken/domain"
)

// MultiCodec encodes with one codec and decodes anything any of its codecs understands,
// dispatching on the sealed prefix. It lets a deployment move to sealed tokens while
// customers still show legacy codes.
type MultiCodec struct {
	primary Codec
	legacy  Codec
	sealed  Codec
}

// NewMultiCodec creates a MultiCodec. sealed may be nil when no sealing key is configured;
// primary must be one of legacy or sealed.
func NewMultiCodec(primary Codec, legacy, sealed Codec) *MultiCodec {
	return &MultiCodec{primary: primary, legacy: legacy, sealed: sealed}
}

func (m *MultiCodec) Format() qrtokenDomain.Format {
	return m.primary.Format()
}

func (m *MultiCodec) Encode(token *qrtokenDomain.Token) (string, error) {
	return m.primary.Encode(token)
}

func (m *MultiCodec) Decode(raw string) (*qrtokenDomain.Token, error) {
	if IsSealed(raw) {
		if m.sealed == nil {
			return nil, qrtokenDomain.ErrMalformedToken
		}
		return m.sealed.Decode(raw)
	}
	if m.legacy == nil {
		return nil, qrtokenDomain.ErrMalformedToken
	}
	return m.legacy.Decode(raw)
}
