package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig bounds requests per key per minute.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// TracingConfig configures OTLP export. An empty Endpoint disables tracing.
type TracingConfig struct {
	Endpoint string
}

// Load returns a viper instance reading environment variables with the given prefix.
// A .env file in the working directory is loaded first when present.
func Load(prefix string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_RPM", 30)
	v.SetDefault("RATE_LIMIT_BURST", 5)

	return v, nil
}

// GetServicePort returns the listen address, e.g. ":8080".
func GetServicePort(v *viper.Viper, key string) string {
	port := v.GetString(key)
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// GetAppEnv returns the deployment environment name.
func GetAppEnv(v *viper.Viper) string {
	return v.GetString("APP_ENV")
}

// LoadDatabaseConfig reads the database section; dbNameKey selects the service's database.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(dbNameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

// LoadJWTConfig reads the JWT section.
func LoadJWTConfig(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		AccessTTL:  v.GetDuration("JWT_ACCESS_TTL"),
		RefreshTTL: v.GetDuration("JWT_REFRESH_TTL"),
	}
}

// LoadKafkaConfig reads the Kafka section. Brokers are comma separated.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers:     brokers,
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}

// LoadRedisConfig reads the Redis section.
func LoadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
}

// LoadRateLimitConfig reads the rate limit section.
func LoadRateLimitConfig(v *viper.Viper) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: v.GetInt("RATE_LIMIT_RPM"),
		Burst:             v.GetInt("RATE_LIMIT_BURST"),
	}
}

// LoadTracingConfig reads the tracing section.
func LoadTracingConfig(v *viper.Viper) TracingConfig {
	return TracingConfig{Endpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
