package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	for _, key := range []string{"HTTP_PORT", "STORAGE_DRIVER", "TRANSFER_TTL", "KAFKA_BROKERS", "JWT_SECRET", "DB_PORT", "OUTBOX_PROCESSING_LEASE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 72*time.Hour, cfg.TransferTTL)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, time.Minute, cfg.Outbox.Lease)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.UsesDevSecret())
	assert.Empty(t, cfg.EnvFile)
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORAGE_DRIVER", "FILE")
	t.Setenv("TRANSFER_TTL", "1h30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("OUTBOX_BATCH_SIZE", "50")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.StorageDriver)
	assert.Equal(t, 90*time.Minute, cfg.TransferTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 50, cfg.Outbox.BatchSize)
	assert.False(t, cfg.UsesDevSecret())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "TRANSFER_TTL", value: "three days"},
		{name: "negative ttl", key: "TRANSFER_TTL", value: "-1h"},
		{name: "bad int", key: "DB_PORT", value: "postgres"},
		{name: "unknown driver", key: "STORAGE_DRIVER", value: "mongo"},
		{name: "zero outbox lease", key: "OUTBOX_PROCESSING_LEASE", value: "0s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "memora"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=memora sslmode=disable", c.DSN())
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
