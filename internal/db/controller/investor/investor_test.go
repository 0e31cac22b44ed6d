package investor

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Investor{}, &models.Company{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedInvestors(t *testing.T, db *gorm.DB, investors []models.Investor) {
	t.Helper()
	for i := range investors {
		err := db.Create(&investors[i]).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCreate(t *testing.T) {
	testCases := []struct {
		name          string
		dbNil         bool
		investor      models.Investor
		expectedError error
	}{
		{
			name:          "nil database",
			dbNil:         true,
			investor:      models.Investor{FullName: "x"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty full name",
			investor:      models.Investor{City: "Riyadh"},
			expectedError: ErrFullNameEmpty,
		},
		{
			name:     "successful create",
			investor: models.Investor{FullName: "Salem", City: "Riyadh"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.dbNil {
				db = setupTestDB(t)
			}

			created, err := Create(db, &tc.investor)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, created.ID, "public id should be generated")
			assert.Equal(t, "Salem", created.FullName)
		})
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	seedInvestors(t, db, []models.Investor{
		{FullName: "A", City: "Riyadh", CompanyID: uintPtr(1)},
		{FullName: "B", City: "Jeddah", CompanyID: uintPtr(2)},
		{FullName: "C", City: "Dammam", CompanyID: uintPtr(1)},
	})

	all, err := List(db, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := List(db, uintPtr(1))
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
	for _, investor := range scoped {
		assert.Equal(t, uint(1), *investor.CompanyID)
	}
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, &models.Investor{FullName: "Salem", City: "Riyadh"})
	require.NoError(t, err)

	found, err := GetByID(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salem", found.FullName)

	_, err = GetByID(db, "does-not-exist")
	assert.ErrorIs(t, err, ErrInvestorNotFound)
}
