// Package dto defines the JSON shapes of the loyalty endpoints.
package dto

import (
	"time"

	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// ProfileResponse is the display view of a profile.
type ProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Initials    string `json:"initials"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Username    string `json:"username,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// CardResponse is the display view of a stamp card.
type CardResponse struct {
	Points          int        `json:"points"`
	TotalVisits     int        `json:"total_visits"`
	LastVisitAt     *time.Time `json:"last_visit_at"`
	RewardThreshold int        `json:"reward_threshold"`
	RewardReady     bool       `json:"reward_ready"`
	StampsRemaining int        `json:"stamps_remaining"`
}

// StyleResponse describes the card skin.
type StyleResponse struct {
	Template string   `json:"template"`
	Name     string   `json:"name"`
	Gradient []string `json:"gradient"`
}

// SnapshotResponse is a customer's profile and card as read at FetchedAt.
type SnapshotResponse struct {
	Profile   ProfileResponse `json:"profile"`
	Card      CardResponse    `json:"card"`
	Style     StyleResponse   `json:"style"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// MapProfileToResponse converts a profile to its display view.
func MapProfileToResponse(profile *loyaltyDomain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          profile.ID.String(),
		DisplayName: profile.DisplayName(),
		Initials:    profile.Initials(),
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Username:    profile.Username,
		AvatarURL:   profile.AvatarURL,
	}
}

// MapCardToResponse converts a card to its display view.
func MapCardToResponse(card *loyaltyDomain.LoyaltyCard) CardResponse {
	return CardResponse{
		Points:          card.Points,
		TotalVisits:     card.TotalVisits,
		LastVisitAt:     card.LastVisitAt,
		RewardThreshold: loyaltyDomain.RewardThreshold,
		RewardReady:     card.RewardReady(),
		StampsRemaining: card.StampsRemaining(),
	}
}

// MapSnapshotToResponse converts a snapshot to its response shape.
func MapSnapshotToResponse(snapshot *loyaltyDomain.CustomerSnapshot) SnapshotResponse {
	style := snapshot.Profile.CardTemplate.Style()
	return SnapshotResponse{
		Profile: MapProfileToResponse(snapshot.Profile),
		Card:    MapCardToResponse(snapshot.Card),
		Style: StyleResponse{
			Template: string(style.Template),
			Name:     style.Name,
			Gradient: style.Gradient,
		},
		FetchedAt: snapshot.FetchedAt,
	}
}
