// Package repository reads customer profiles and stamp cards and credits stamps through the
// add_loyalty_point procedure.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/database"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// SQLSTATE codes raised by add_loyalty_point.
const (
	sqlStateInsufficientPrivilege = "42501"
	sqlStateNoDataFound           = "P0002"
)

// PostgreSQLLoyaltyRepository implements loyalty persistence for PostgreSQL.
type PostgreSQLLoyaltyRepository struct {
	db database.Querier
}

// GetProfile retrieves a customer profile by id.
func (p *PostgreSQLLoyaltyRepository) GetProfile(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.Profile, error) {
	query := `SELECT id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		COALESCE(username, ''), COALESCE(avatar_url, ''), role, COALESCE(card_template, '')
		FROM profiles WHERE id = $1`

	var profile loyaltyDomain.Profile
	var role, template string

	err := p.db.QueryRowContext(ctx, query, customerID).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FirstName,
		&profile.LastName,
		&profile.Username,
		&profile.AvatarURL,
		&role,
		&template,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, loyaltyDomain.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get profile")
	}

	if profile.Role, err = authDomain.ParseRole(role); err != nil {
		return nil, err
	}
	profile.CardTemplate = loyaltyDomain.ParseCardTemplate(template)
	return &profile, nil
}

// GetLoyaltyCard retrieves a customer's card. A customer without a card row gets the zero card.
func (p *PostgreSQLLoyaltyRepository) GetLoyaltyCard(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.LoyaltyCard, error) {
	query := `SELECT points, total_visits, last_visit FROM loyalty_cards WHERE customer_id = $1`

	card := loyaltyDomain.LoyaltyCard{CustomerID: customerID}
	var lastVisit sql.NullTime

	err := p.db.QueryRowContext(ctx, query, customerID).Scan(&card.Points, &card.TotalVisits, &lastVisit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &card, nil
		}
		return nil, apperrors.Wrap(err, "failed to get loyalty card")
	}

	if lastVisit.Valid {
		card.LastVisitAt = &lastVisit.Time
	}
	return &card, nil
}

// AddLoyaltyPoint credits one stamp to the customer on behalf of staffID.
func (p *PostgreSQLLoyaltyRepository) AddLoyaltyPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	query := `SELECT add_loyalty_point($1, $2)`

	if _, err := p.db.ExecContext(ctx, query, customerID, staffID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return mapProcedureError(string(pqErr.Code), pqErr.Message, err)
		}
		return apperrors.Wrapf(loyaltyDomain.ErrCreditFailed, "add loyalty point: %v", err)
	}
	return nil
}

// NewPostgreSQLLoyaltyRepository creates a new PostgreSQL loyalty repository.
func NewPostgreSQLLoyaltyRepository(db database.Querier) *PostgreSQLLoyaltyRepository {
	return &PostgreSQLLoyaltyRepository{db: db}
}

func mapProcedureError(sqlState, message string, cause error) error {
	switch sqlState {
	case sqlStateInsufficientPrivilege:
		return loyaltyDomain.ErrStaffNotAuthorized
	case sqlStateNoDataFound:
		return loyaltyDomain.ErrCustomerNotFound
	}
	if message == "" {
		return apperrors.Wrapf(loyaltyDomain.ErrCreditFailed, "add loyalty point: %v", cause)
	}
	return loyaltyDomain.ErrCreditFailed.WithMessage(message)
}
