package config

import (
	"fmt"
)

// ValidateConfig checks that required configuration values are present
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.DBUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.DBName == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if IsProduction() && cfg.DBPassword == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required in production")
	}
	return nil
}
