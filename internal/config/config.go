package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverFile     = "file"

	devJWTSecret = "memora-dev-secret"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StorageDriver string
	StorageFile   string
	DB            DBConfig

	JWTSecret string

	TransferTTL       time.Duration
	CaregiverCacheTTL time.Duration

	Kafka  KafkaConfig
	Outbox OutboxConfig
	Audit  AuditConfig

	// EnvFile is the dotenv file that was loaded, empty when none was found.
	EnvFile string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	Lease        time.Duration
}

type AuditConfig struct {
	Workers      int
	BatchSize    int
	FlushTimeout time.Duration
}

// UsesDevSecret reports whether tokens are signed with the built-in development key.
func (c Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Load reads a .env file if one is present and builds the configuration from
// the process environment.
func Load() (Config, error) {
	cfg := Config{EnvFile: loadEnv()}

	r := &reader{}
	cfg.HTTPPort = r.str("HTTP_PORT", "9000")
	cfg.LogLevel = r.str("LOG_LEVEL", "info")

	cfg.StorageDriver = strings.ToLower(r.str("STORAGE_DRIVER", DriverPostgres))
	cfg.StorageFile = r.str("STORAGE_FILE", "memora-data.json")
	cfg.DB = DBConfig{
		Host:     r.str("DB_HOST", "localhost"),
		Port:     r.int("DB_PORT", 5432),
		User:     r.str("POSTGRES_USER", "memora"),
		Password: r.str("POSTGRES_PASSWORD", "memora"),
		Name:     r.str("POSTGRES_DB", "memora"),
	}

	cfg.JWTSecret = r.str("JWT_SECRET", devJWTSecret)
	cfg.TransferTTL = r.duration("TRANSFER_TTL", 72*time.Hour)
	cfg.CaregiverCacheTTL = r.duration("CAREGIVER_CACHE_TTL", 5*time.Minute)

	cfg.Kafka = KafkaConfig{
		Brokers: splitList(r.str("KAFKA_BROKERS", "")),
		Topic:   r.str("KAFKA_TOPIC", "transfer_events"),
		GroupID: r.str("KAFKA_GROUP_ID", "transfer-events-consumer"),
	}
	cfg.Outbox = OutboxConfig{
		PollInterval: r.duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		BatchSize:    r.int("OUTBOX_BATCH_SIZE", 20),
		MaxAttempts:  r.int("OUTBOX_MAX_ATTEMPTS", 5),
		Lease:        r.duration("OUTBOX_PROCESSING_LEASE", time.Minute),
	}
	cfg.Audit = AuditConfig{
		Workers:      r.int("AUDIT_WORKERS", 2),
		BatchSize:    r.int("AUDIT_BATCH_SIZE", 5),
		FlushTimeout: r.duration("AUDIT_FLUSH_TIMEOUT", 500*time.Millisecond),
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverFile:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.TransferTTL <= 0 {
		return fmt.Errorf("config: TRANSFER_TTL must be positive, got %s", c.TransferTTL)
	}
	if c.Outbox.BatchSize <= 0 || c.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("config: outbox batch size and max attempts must be positive")
	}
	if c.Outbox.Lease <= 0 {
		return fmt.Errorf("config: OUTBOX_PROCESSING_LEASE must be positive, got %s", c.Outbox.Lease)
	}
	if c.Audit.Workers <= 0 || c.Audit.BatchSize <= 0 {
		return fmt.Errorf("config: audit workers and batch size must be positive")
	}
	return nil
}

func loadEnv() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return envPath
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			return examplePath
		}
	}
	return ""
}

// reader keeps the first parse error so Load can report it once.
type reader struct {
	err error
}

func (r *reader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
