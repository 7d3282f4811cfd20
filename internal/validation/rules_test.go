package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/nailbliss/stampcard/internal/errors"
)

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("code", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("abc", NoWhitespace))
	assert.Error(t, validation.Validate(" abc", NoWhitespace))
	assert.Error(t, validation.Validate("abc\n", NoWhitespace))
}

func TestUUID(t *testing.T) {
	assert.NoError(t, validation.Validate("0191f5a4-3c1e-7d2b-9a4f-1c2d3e4f5a6b", UUID))
	assert.Error(t, validation.Validate("12345", UUID))
	// Empty values are left to validation.Required.
	assert.NoError(t, validation.Validate("", UUID))
}

func TestPrintable(t *testing.T) {
	assert.NoError(t, validation.Validate("eyJ1c2VySWQiOiIxIn0=", Printable))
	assert.Error(t, validation.Validate("eyJ1\x00c2Vy", Printable))
	assert.Error(t, validation.Validate("abc\r", Printable))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(validation.Validate("", validation.Required))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
