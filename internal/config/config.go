package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	GRPC     GRPCConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Log      LogConfig
	Kafka    KafkaConfig
	Dispatch DispatchConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // e.g. ":50051"
}

// HTTPConfig contains operator REST API settings.
type HTTPConfig struct {
	Address string // e.g. ":8080"
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret
	AdminUser string // created or promoted to admin at startup when set
}

type LogConfig struct {
	Level string
}

// KafkaConfig configures order intake and assignment publishing.
// An empty broker list disables both.
type KafkaConfig struct {
	Brokers          []string
	GroupID          string
	OrdersTopic      string
	AssignmentsTopic string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// DispatchConfig tunes the background dispatcher.
type DispatchConfig struct {
	Interval          time.Duration // pause between scheduling passes; 0 disables the worker
	OperationTimeout  time.Duration // budget for one dispatch operation
	MaxAssignAttempts int           // retries when another dispatch claims the chosen drone first
}

const devSecret = "dev-secret-change-me"

// Load reads configuration in order: .env (if present), environment, then flags in args.
// JWT_SECRET is required.
func Load(args []string) (*Config, error) {
	cfg, err := load(args, "")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults(args []string) (*Config, error) {
	return load(args, devSecret)
}

func load(args []string, secretDefault string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	interval, err := getEnvDuration("DISPATCH_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	opTimeout, err := getEnvDuration("DISPATCH_OPERATION_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	attempts, err := getEnvInt("DISPATCH_MAX_ASSIGN_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{Path: getEnv("DB_PATH", "dispatch.db")},
		GRPC:     GRPCConfig{Address: getEnv("GRPC_ADDRESS", ":50051")},
		HTTP:     HTTPConfig{Address: getEnv("HTTP_ADDRESS", ":8080")},
		Auth:     AuthConfig{JWTSecret: getEnv("JWT_SECRET", secretDefault), AdminUser: getEnv("ADMIN_USERNAME", "")},
		Log:      LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Kafka: KafkaConfig{
			Brokers:          splitList(getEnv("KAFKA_BROKERS", "")),
			GroupID:          getEnv("KAFKA_GROUP_ID", "drone-dispatch"),
			OrdersTopic:      getEnv("KAFKA_ORDERS_TOPIC", "orders.placed"),
			AssignmentsTopic: getEnv("KAFKA_ASSIGNMENTS_TOPIC", "drones.assigned"),
		},
		Dispatch: DispatchConfig{
			Interval:          interval,
			OperationTimeout:  opTimeout,
			MaxAssignAttempts: attempts,
		},
	}

	flags := pflag.NewFlagSet("dispatch", pflag.ContinueOnError)
	flags.StringVar(&cfg.Database.Path, "db-path", cfg.Database.Path, "SQLite database file")
	flags.StringVar(&cfg.GRPC.Address, "grpc-addr", cfg.GRPC.Address, "gRPC listen address")
	flags.StringVar(&cfg.HTTP.Address, "http-addr", cfg.HTTP.Address, "HTTP listen address")
	flags.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	flags.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "comma separated Kafka brokers")
	flags.DurationVar(&cfg.Dispatch.Interval, "dispatch-interval", cfg.Dispatch.Interval, "pause between dispatch passes (0 disables)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Dispatch.Interval < 0 {
		return nil, fmt.Errorf("invalid dispatch interval: %s", cfg.Dispatch.Interval)
	}
	if cfg.Dispatch.OperationTimeout <= 0 {
		return nil, fmt.Errorf("invalid dispatch operation timeout: %s", cfg.Dispatch.OperationTimeout)
	}
	if cfg.Dispatch.MaxAssignAttempts < 1 {
		return nil, fmt.Errorf("invalid max assign attempts: %d", cfg.Dispatch.MaxAssignAttempts)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, HTTP: %s, Kafka: %v, Dispatch: every %s, Auth: *** (masked) ***}",
		c.Database.Path, c.GRPC.Address, c.HTTP.Address, c.Kafka.Brokers, c.Dispatch.Interval)
}
