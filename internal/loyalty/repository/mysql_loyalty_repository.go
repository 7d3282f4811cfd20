package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/database"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
	loyaltyDomain "github.com/nailbliss/stampcard/internal/loyalty/domain"
)

// MySQLLoyaltyRepository implements loyalty persistence for MySQL. Ids are stored as
// BINARY(16) and the DSN must set parseTime=true.
type MySQLLoyaltyRepository struct {
	db database.Querier
}

// GetProfile retrieves a customer profile by id.
func (m *MySQLLoyaltyRepository) GetProfile(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.Profile, error) {
	query := `SELECT id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		COALESCE(username, ''), COALESCE(avatar_url, ''), role, COALESCE(card_template, '')
		FROM profiles WHERE id = ?`

	id, err := customerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	var profile loyaltyDomain.Profile
	var rawID []byte
	var role, template string

	err = m.db.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if err := profile.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal profile id")
	}
	if profile.Role, err = authDomain.ParseRole(role); err != nil {
		return nil, err
	}
	profile.CardTemplate = loyaltyDomain.ParseCardTemplate(template)
	return &profile, nil
}

// GetLoyaltyCard retrieves a customer's card. A customer without a card row gets the zero card.
func (m *MySQLLoyaltyRepository) GetLoyaltyCard(
	ctx context.Context,
	customerID uuid.UUID,
) (*loyaltyDomain.LoyaltyCard, error) {
	query := `SELECT points, total_visits, last_visit FROM loyalty_cards WHERE customer_id = ?`

	id, err := customerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	card := loyaltyDomain.LoyaltyCard{CustomerID: customerID}
	var lastVisit sql.NullTime

	err = m.db.QueryRowContext(ctx, query, id).Scan(&card.Points, &card.TotalVisits, &lastVisit)
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
func (m *MySQLLoyaltyRepository) AddLoyaltyPoint(ctx context.Context, customerID, staffID uuid.UUID) error {
	query := `CALL add_loyalty_point(?, ?)`

	customer, err := customerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}
	staff, err := staffID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal staff id")
	}

	if _, err := m.db.ExecContext(ctx, query, customer, staff); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) {
			return mapProcedureError(string(mysqlErr.SQLState[:]), mysqlErr.Message, err)
		}
		return apperrors.Wrapf(loyaltyDomain.ErrCreditFailed, "add loyalty point: %v", err)
	}
	return nil
}

// NewMySQLLoyaltyRepository creates a new MySQL loyalty repository.
func NewMySQLLoyaltyRepository(db database.Querier) *MySQLLoyaltyRepository {
	return &MySQLLoyaltyRepository{db: db}
}
