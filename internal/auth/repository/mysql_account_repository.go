package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	"github.com/nailbliss/stampcard/internal/database"
	apperrors "github.com/nailbliss/stampcard/internal/errors"
)

// MySQLAccountRepository loads accounts from MySQL.
type MySQLAccountRepository struct {
	db database.Querier
}

// Get retrieves the account behind a profile id.
func (m *MySQLAccountRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.Account, error) {
	query := `SELECT id, COALESCE(email, ''), role FROM profiles WHERE id = ?`

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	var rawID []byte
	var account authDomain.Account
	var role string

	err = m.db.QueryRowContext(ctx, query, id).Scan(&rawID, &account.Email, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	if err := account.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	if account.Role, err = authDomain.ParseRole(role); err != nil {
		return nil, err
	}
	return &account, nil
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db database.Querier) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}
