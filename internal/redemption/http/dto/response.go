package dto

import (
	"time"

	loyaltyDTO "github.com/nailbliss/stampcard/internal/loyalty/http/dto"
	redemptionDomain "github.com/nailbliss/stampcard/internal/redemption/domain"
)

// AttemptResponse is an operator's view of a redemption attempt. The raw token is never
// returned.
type AttemptResponse struct {
	ID         string                       `json:"id"`
	CustomerID string                       `json:"customer_id"`
	StaffID    string                       `json:"staff_id"`
	Status     string                       `json:"status"`
	IssuedAt   time.Time                    `json:"issued_at"`
	TokenAgeMS int64                        `json:"token_age_ms"`
	ScannedAt  time.Time                    `json:"scanned_at"`
	LastError  string                       `json:"last_error,omitempty"`
	Customer   *loyaltyDTO.SnapshotResponse `json:"customer,omitempty"`
}

// ResultResponse is the outcome of a confirmed attempt. Customer is the card as read after
// the credit, or null when that read failed.
type ResultResponse struct {
	Attempt  AttemptResponse              `json:"attempt"`
	Customer *loyaltyDTO.SnapshotResponse `json:"customer"`
}

// MapAttemptToResponse converts an attempt to its operator view.
func MapAttemptToResponse(attempt *redemptionDomain.Attempt) AttemptResponse {
	response := AttemptResponse{
		ID:         attempt.ID.String(),
		CustomerID: attempt.CustomerID.String(),
		StaffID:    attempt.StaffID.String(),
		Status:     string(attempt.Status),
		IssuedAt:   attempt.IssuedAt.UTC(),
		TokenAgeMS: attempt.TokenAge.Milliseconds(),
		ScannedAt:  attempt.ScannedAt.UTC(),
		LastError:  attempt.LastError,
	}
	if attempt.Snapshot != nil {
		snapshot := loyaltyDTO.MapSnapshotToResponse(attempt.Snapshot)
		response.Customer = &snapshot
	}
	return response
}

// MapResultToResponse converts a confirmation result.
func MapResultToResponse(result *redemptionDomain.Result) ResultResponse {
	response := ResultResponse{Attempt: MapAttemptToResponse(result.Attempt)}
	if result.Snapshot != nil {
		snapshot := loyaltyDTO.MapSnapshotToResponse(result.Snapshot)
		response.Customer = &snapshot
	}
	return response
}
