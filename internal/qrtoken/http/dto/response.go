// Package dto defines the JSON shapes of the QR token endpoints.
package dto

import (
	"math"
	"time"

	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
)

// ImageResponse describes the rendered QR code.
type ImageResponse struct {
	Source    string `json:"source"`
	MediaType string `json:"media_type"`
	Size      int    `json:"size"`
}

// FrameResponse is one issued token.
type FrameResponse struct {
	Token     string        `json:"token"`
	Image     ImageResponse `json:"image"`
	IssuedAt  time.Time     `json:"issued_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// MapFrameToResponse converts a presenter frame to its response shape.
func MapFrameToResponse(frame *qrtokenUseCase.Frame) FrameResponse {
	response := FrameResponse{
		Token:     frame.Token,
		IssuedAt:  frame.IssuedAt.UTC(),
		ExpiresAt: frame.ExpiresAt.UTC(),
	}
	if frame.Image != nil {
		response.Image = ImageResponse{
			Source:    frame.Image.Source,
			MediaType: frame.Image.MediaType,
			Size:      frame.Image.Size,
		}
	}
	return response
}

// Stream message types.
const (
	StreamMessageToken     = "token"
	StreamMessageCountdown = "countdown"
)

// StreamMessage is one message pushed over the presenter websocket.
type StreamMessage struct {
	Type             string         `json:"type"`
	Frame            *FrameResponse `json:"frame,omitempty"`
	RemainingSeconds *int           `json:"remaining_seconds,omitempty"`
}

// NewTokenMessage wraps a frame.
func NewTokenMessage(frame *qrtokenUseCase.Frame) StreamMessage {
	response := MapFrameToResponse(frame)
	return StreamMessage{Type: StreamMessageToken, Frame: &response}
}

// NewCountdownMessage reports whole seconds until the next refresh, rounded up.
func NewCountdownMessage(remaining time.Duration) StreamMessage {
	seconds := int(math.Ceil(remaining.Seconds()))
	return StreamMessage{Type: StreamMessageCountdown, RemainingSeconds: &seconds}
}
