// Package testutil connects integration tests to a disposable Postgres.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/migrations"
)

const EnvDatabaseURL = "TEST_DATABASE_URL"

type TDB struct {
	Pool *pgxpool.Pool
	DB   *db.Database
}

// NewFromEnv connects to TEST_DATABASE_URL and applies migrations. The test is
// skipped when the variable is unset.
func NewFromEnv(t *testing.T) *TDB {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	ctx := context.Background()
	database, err := db.NewDb(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	_, err = migrations.Apply(ctx, database.GetPool())
	require.NoError(t, err)

	tdb := &TDB{Pool: database.GetPool(), DB: database}
	tdb.Truncate(t)
	return tdb
}

func (tdb *TDB) Truncate(t *testing.T) {
	t.Helper()
	_, err := tdb.Pool.Exec(context.Background(), `
        TRUNCATE transfer_history, patient_transfers, session_memories, therapy_sessions,
            family_members, memory_photos, memories, patients, caregivers, outbox_tasks CASCADE
    `)
	require.NoError(t, err)
}

// Seed inserts the shared fixture: caregivers Alice and Bob, and Alice's patient Rose.
func (tdb *TDB) Seed(t *testing.T) {
	t.Helper()
	_, err := tdb.Pool.Exec(context.Background(), `
        INSERT INTO caregivers (id, name, email) VALUES
            ('cg-alice', 'Alice', 'alice@example.com'),
            ('cg-bob', 'Bob', 'Bob@Example.com');
        INSERT INTO patients (id, caregiver_id, name, age) VALUES
            ('pt-rose', 'cg-alice', 'Rose', 82);
    `)
	require.NoError(t, err)
}
