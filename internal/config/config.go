package config

import (
	"fmt"

	"github.com/ryderx/service-rental/pkg/config"
)

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	BcryptCost      int
	DBConfig        config.DatabaseConfig
	JWTConfig       config.JWTConfig
	KafkaConfig     config.KafkaConfig
	RedisConfig     config.RedisConfig
	RateLimitConfig config.RateLimitConfig
	TracingConfig   config.TracingConfig
}

// Load reads configuration from RENTAL_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("RENTAL")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("BCRYPT_COST", 12)

	cfg := &ServiceConfig{
		Port:            config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:          config.GetAppEnv(v),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		DBConfig:        config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:       config.LoadJWTConfig(v),
		KafkaConfig:     config.LoadKafkaConfig(v),
		RedisConfig:     config.LoadRedisConfig(v),
		RateLimitConfig: config.LoadRateLimitConfig(v),
		TracingConfig:   config.LoadTracingConfig(v),
	}
	if cfg.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("RENTAL_JWT_SECRET is required")
	}
	return cfg, nil
}
