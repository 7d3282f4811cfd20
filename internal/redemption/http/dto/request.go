// Package dto defines the JSON shapes of the redemption endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/nailbliss/stampcard/internal/validation"
)

// maxTokenLength bounds a scanned payload. Sealed tokens are well under 512 bytes.
const maxTokenLength = 2048

// ScanRequest carries the raw string a scanner decoded.
type ScanRequest struct {
	Token string `json:"token"`
}

// Validate checks if the scan request is valid.
func (r *ScanRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, maxTokenLength),
		),
	)
}
