// Package repository reads account roles from the profiles table. PostgreSQL stores ids as
// native UUIDs, MySQL as BINARY(16).
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

// PostgreSQLAccountRepository loads accounts from PostgreSQL.
type PostgreSQLAccountRepository struct {
	db database.Querier
}

// Get retrieves the account behind a profile id.
func (p *PostgreSQLAccountRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.Account, error) {
	query := `SELECT id, COALESCE(email, ''), role FROM profiles WHERE id = $1`

	var account authDomain.Account
	var role string

	err := p.db.QueryRowContext(ctx, query, userID).Scan(&account.ID, &account.Email, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	if account.Role, err = authDomain.ParseRole(role); err != nil {
		return nil, err
	}
	return &account, nil
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db database.Querier) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}
