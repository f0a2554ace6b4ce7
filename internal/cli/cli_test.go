package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memora-care/memora/internal/auth"
	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/migrations"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "memora dev (commit: unknown, built: unknown)\n", out)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("STORAGE_DRIVER", "file")

	out, err := execute(t, "token", "--id", "cg-alice", "--email", "alice@example.com", "--name", "Alice")
	require.NoError(t, err)

	id, err := auth.NewTokens("cli-test-secret", clock.NewSystem()).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "cg-alice", id.CaregiverID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "Alice", id.Name)
}

func TestTokenRequiresID(t *testing.T) {
	_, err := execute(t, "token", "--id", "")
	assert.Error(t, err)
}

func TestMigrateList(t *testing.T) {
	want, err := migrations.Names()
	require.NoError(t, err)

	out, err := execute(t, "migrate", "--list")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, "\n")+"\n", out)
}
