package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_Ordered(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestTransfersMigration_EnforcesSinglePending(t *testing.T) {
	body, err := migrationFiles.ReadFile("0003_patient_transfers.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.True(t, strings.Contains(sql, "WHERE status = 'pending'"))
	assert.True(t, strings.Contains(sql, "from_caregiver_id <> to_caregiver_id"))
}
