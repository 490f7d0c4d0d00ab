package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a Postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Auth stores identity-provider settings.
type Auth struct {
	Secret string
}

// Kafka stores admin-event consumer settings. Empty brokers disable the worker.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Delivery stores status lifecycle policy parameters.
type Delivery struct {
	RollbackWindow time.Duration
}

// RateLimit stores per-key request rate limiting settings.
type RateLimit struct {
	Limit  int
	Window time.Duration
	TTL    time.Duration
}

// Config stores service settings.
type Config struct {
	Port      int
	DB        DB
	Auth      Auth
	Kafka     Kafka
	Delivery  Delivery
	RateLimit RateLimit
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      envInt("PORT", defaultPort),
		DB:        defaultDB,
		Auth:      defaultAuth,
		Kafka:     defaultKafka,
		Delivery:  defaultDelivery,
		RateLimit: defaultRateLimit,
	}

	cfg.DB.Host = envStr("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = envStr("DB_PORT", cfg.DB.Port)
	cfg.DB.User = envStr("DB_USER", cfg.DB.User)
	cfg.DB.Pass = envStr("DB_PASS", cfg.DB.Pass)
	cfg.DB.Name = envStr("DB_NAME", cfg.DB.Name)

	cfg.Auth.Secret = envStr("AUTH_SECRET", cfg.Auth.Secret)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	cfg.Kafka.GroupID = envStr("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.Topic = envStr("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.Delivery.RollbackWindow = envDuration("ROLLBACK_WINDOW", cfg.Delivery.RollbackWindow)

	fs := pflag.NewFlagSet("service-delivery", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.DurationVar(&cfg.Delivery.RollbackWindow, "rollback-window", cfg.Delivery.RollbackWindow,
		"how long a courier may revert a status change")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Delivery.RollbackWindow <= 0 {
		return nil, fmt.Errorf("invalid rollback window: %s", cfg.Delivery.RollbackWindow)
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
