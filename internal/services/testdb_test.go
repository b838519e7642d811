package services

import (
	"os"
	"testing"

	"coursekit-backend-go/internal/db"
	"coursekit-backend-go/internal/migrations"
	"coursekit-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// testDB opens the database named by TEST_DATABASE_URL, applies migrations and
// truncates all tables. Tests that need it are skipped when the variable is
// unset so the pure-logic suite still runs everywhere.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	database, err := db.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Apply(database, "../../migrations"))
	_, err = database.Exec(`
TRUNCATE accounts, courses, chapters, lessons, enrollments, progress,
         analytics_events, media_assets, server_metric_samples CASCADE
`)
	require.NoError(t, err)
	return database
}

func testAccount(t *testing.T, database *sqlx.DB, subject, email, role string) models.Account {
	t.Helper()
	account, err := SyncAccount(database, SyncAccountInput{Subject: subject, Email: email}, role == RoleAdmin)
	require.NoError(t, err)
	if account.Role != role {
		require.NoError(t, UpdateAccountRole(database, models.Account{Role: RoleAdmin}, account.ID, role))
		account, err = AccountBySubject(database, subject)
		require.NoError(t, err)
	}
	return account
}

func testCourse(t *testing.T, database *sqlx.DB, owner models.Account, title string) CreatedCourse {
	t.Helper()
	created, err := CreateCourse(database, owner, CourseCreateInput{
		Title:    title,
		Category: "Development",
		Level:    "Beginner",
	})
	require.NoError(t, err)
	return created
}
