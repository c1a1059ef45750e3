package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full server configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	CORSOrigin string `mapstructure:"corsorigin"`
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Name           string `mapstructure:"name"`
	MigrationsPath string `mapstructure:"migrationspath"`
}

// AuthConfig holds token and federation settings
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwtsecret"`
	AccessTokenMinutes int    `mapstructure:"accesstokenminutes"`
	RefreshTokenDays   int    `mapstructure:"refreshtokendays"`
	GoogleClientID     string `mapstructure:"googleclientid"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from .env file and environment variables.
// prefix: Environment variable prefix (e.g. "GTDHUB_")
// target: Pointer to the config struct to load into
func Load(prefix string, target interface{}) error {
	v := viper.New()

	// .env file is optional
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	// Viper's AutomaticEnv doesn't work well with Unmarshal when keys aren't
	// known up front, so iterate env vars and populate viper directly.
	prefixUpper := strings.ToUpper(prefix)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]

		if strings.HasPrefix(key, prefixUpper) {
			// GTDHUB_DATABASE_HOST -> database.host
			propKey := strings.TrimPrefix(key, prefixUpper)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			propKey = strings.TrimPrefix(propKey, ".")

			v.Set(propKey, value)
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Default returns a Config with development defaults applied
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:       "8000",
			CORSOrigin: "http://localhost:5173",
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "gtdhub",
			Name:           "gtdhub",
			MigrationsPath: "migrations",
		},
		Auth: AuthConfig{
			JWTSecret:          "change-me-in-production",
			AccessTokenMinutes: 30,
			RefreshTokenDays:   7,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
		},
	}
}
