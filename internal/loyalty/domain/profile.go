// Package domain defines the loyalty model: customer profiles, stamp cards and the card
// templates customers pick for their card.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
)

const defaultDisplayName = "Customer"

// Profile is the customer's public profile.
type Profile struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	Username     string
	AvatarURL    string
	Role         authDomain.Role
	CardTemplate CardTemplate
}

// DisplayName returns "First Last" when both are set, then the username, then the first name
// alone, and "Customer" otherwise.
func (p *Profile) DisplayName() string {
	if p == nil {
		return defaultDisplayName
	}

	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	username := strings.TrimSpace(p.Username)

	switch {
	case first != "" && last != "":
		return first + " " + last
	case username != "":
		return username
	case first != "":
		return first
	default:
		return defaultDisplayName
	}
}

// Initials returns up to two upper-case initials of the display name.
func (p *Profile) Initials() string {
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(p.DisplayName()) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		count++
		if count == 2 {
			break
		}
	}
	return b.String()
}
