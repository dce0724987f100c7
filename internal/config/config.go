package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config stores service settings.
type Config struct {
	Port       int
	LogLevel   string
	Storage    string
	DB         DB
	Assignment Assignment
	Kafka      Kafka
	Notify     Notify
}

// DB holds PostgreSQL connection settings.
type DB struct {
	Host        string
	Port        string
	User        string
	Pass        string
	Name        string
	LockTimeout time.Duration
}

// DSN builds a postgres connection URL.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Assignment tunes the assignment engine.
type Assignment struct {
	OperationTimeout       time.Duration
	RequireRejectionReason bool
	DefaultRejectionReason string
}

// Kafka holds broker and topic settings. Empty Brokers disables Kafka.
type Kafka struct {
	Brokers            []string
	NotificationsTopic string
	NotifierGroup      string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Notify sizes the dispatcher and its retry policy.
type Notify struct {
	QueueSize   int
	Workers     int
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       defaultPort,
		LogLevel:   defaultLogLevel,
		Storage:    StoragePostgres,
		DB:         defaultDB,
		Assignment: defaultAssignment,
		Kafka:      defaultKafka,
		Notify:     defaultNotify,
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	if err := loadFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv(cfg *Config) error {
	var err error

	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Storage = envString("STORAGE", cfg.Storage)

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)
	if cfg.DB.LockTimeout, err = envDuration("POSTGRES_LOCK_TIMEOUT", cfg.DB.LockTimeout); err != nil {
		return err
	}

	if cfg.Assignment.OperationTimeout, err = envDuration("ASSIGNMENT_OPERATION_TIMEOUT", cfg.Assignment.OperationTimeout); err != nil {
		return err
	}
	if cfg.Assignment.RequireRejectionReason, err = envBool("ASSIGNMENT_REQUIRE_REJECTION_REASON", cfg.Assignment.RequireRejectionReason); err != nil {
		return err
	}
	cfg.Assignment.DefaultRejectionReason = envString("ASSIGNMENT_DEFAULT_REJECTION_REASON", cfg.Assignment.DefaultRejectionReason)

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.NotificationsTopic = envString("KAFKA_NOTIFICATIONS_TOPIC", cfg.Kafka.NotificationsTopic)
	cfg.Kafka.NotifierGroup = envString("KAFKA_NOTIFIER_GROUP", cfg.Kafka.NotifierGroup)

	if cfg.Notify.QueueSize, err = envInt("NOTIFY_QUEUE_SIZE", cfg.Notify.QueueSize); err != nil {
		return err
	}
	if cfg.Notify.Workers, err = envInt("NOTIFY_WORKERS", cfg.Notify.Workers); err != nil {
		return err
	}
	if cfg.Notify.MaxAttempts, err = envInt("NOTIFY_MAX_ATTEMPTS", cfg.Notify.MaxAttempts); err != nil {
		return err
	}
	if cfg.Notify.BaseDelay, err = envDuration("NOTIFY_BASE_DELAY", cfg.Notify.BaseDelay); err != nil {
		return err
	}
	if cfg.Notify.MaxDelay, err = envDuration("NOTIFY_MAX_DELAY", cfg.Notify.MaxDelay); err != nil {
		return err
	}
	return nil
}

func loadFlags(cfg *Config) error {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: postgres or memory")
	fs.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "comma separated Kafka brokers")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("invalid storage %q: want %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.Assignment.OperationTimeout <= 0 {
		return fmt.Errorf("invalid ASSIGNMENT_OPERATION_TIMEOUT: %s", c.Assignment.OperationTimeout)
	}
	if c.DB.LockTimeout < 0 {
		return fmt.Errorf("invalid POSTGRES_LOCK_TIMEOUT: %s", c.DB.LockTimeout)
	}
	if c.Notify.QueueSize <= 0 || c.Notify.Workers <= 0 || c.Notify.MaxAttempts <= 0 {
		return fmt.Errorf("notify queue size, workers and max attempts must be positive")
	}
	if c.Notify.MaxDelay < c.Notify.BaseDelay {
		return fmt.Errorf("NOTIFY_MAX_DELAY %s is below NOTIFY_BASE_DELAY %s", c.Notify.MaxDelay, c.Notify.BaseDelay)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
