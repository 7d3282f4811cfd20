package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMigrationsPath_IncludesLoyaltyProcedure(t *testing.T) {
	files := map[string]string{
		"postgresql": "000004_create_add_loyalty_point_function.up.sql",
		"mysql":      "000004_create_add_loyalty_point_procedure.up.sql",
	}

	for dbType, procedure := range files {
		t.Run(dbType, func(t *testing.T) {
			path, err := getMigrationsPath(dbType)
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(path))

			_, err = os.Stat(filepath.Join(path, procedure))
			assert.NoError(t, err)
		})
	}

	_, err := getMigrationsPath("sqlite")
	assert.Error(t, err)
}

func TestDriverParameters(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders("postgres", 3))
	assert.Equal(t, []string{"?", "?"}, placeholders("mysql", 2))

	id := uuid.MustParse("5b0c6a3e-7d2b-4d8e-9f1a-2c3b4d5e6f70")

	value, err := uuidToDriverValue(id, "postgres")
	require.NoError(t, err)
	assert.Equal(t, id, value)

	value, err = uuidToDriverValue(id, "mysql")
	require.NoError(t, err)
	assert.Len(t, value, 16)
}

func TestTeardownDBWithNilDB(t *testing.T) {
	assert.NotPanics(t, func() {
		TeardownDB(t, nil)
	})
}

func TestFixtures(t *testing.T) {
	tests := []struct {
		name  string
		skip  func(t *testing.T)
		setup func(t *testing.T) *sql.DB
		clean func(t *testing.T, db *sql.DB)
	}{
		{"postgres", SkipIfNoPostgres, SetupPostgresDB, CleanupPostgresDB},
		{"mysql", SkipIfNoMySQL, SetupMySQLDB, CleanupMySQLDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)
			db := tt.setup(t)
			defer TeardownDB(t, db)

			customerID := CreateTestProfile(t, db, tt.name, Profile{FirstName: "Ana", CardTemplate: "gold"})
			staffID := CreateTestProfile(t, db, tt.name, Profile{Role: "staff"})

			where := " FROM profiles WHERE id = " + placeholders(tt.name, 1)[0]
			var role, email string
			var template sql.NullString
			customerValue, err := uuidToDriverValue(customerID, tt.name)
			require.NoError(t, err)
			require.NoError(t, db.QueryRow("SELECT role, email, card_template"+where, customerValue).
				Scan(&role, &email, &template))
			assert.Equal(t, "customer", role)
			assert.Equal(t, customerID.String()+"@example.com", email)
			assert.Equal(t, "gold", template.String)

			staffValue, err := uuidToDriverValue(staffID, tt.name)
			require.NoError(t, err)
			require.NoError(t, db.QueryRow("SELECT role, card_template"+where, staffValue).Scan(&role, &template))
			assert.Equal(t, "staff", role)
			assert.False(t, template.Valid)

			SetTestPoints(t, db, tt.name, customerID, 3)
			SetTestPoints(t, db, tt.name, customerID, 4)
			assert.Equal(t, 0, CountVisits(t, db, tt.name, customerID))

			var points int
			query := "SELECT points FROM loyalty_cards WHERE customer_id = " + placeholders(tt.name, 1)[0]
			require.NoError(t, db.QueryRow(query, customerValue).Scan(&points))
			assert.Equal(t, 4, points)

			tt.clean(t, db)
			var count int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count))
			assert.Equal(t, 0, count)
		})
	}
}
