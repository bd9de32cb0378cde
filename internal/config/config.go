package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver string
	URL    string
}

type HTTPConfig struct {
	Port string
	// SecureCookies marks the CSRF cookie Secure; enable behind HTTPS.
	SecureCookies bool
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// AppConfig holds everything the server and the CLI read from the environment.
type AppConfig struct {
	AppName        string
	Database       DatabaseConfig
	HTTP           HTTPConfig
	Auth           AuthConfig
	Redis          RedisConfig
	Mongo          MongoConfig
	StdoutLogger   StdoutLogConfig
	FluentBit      FluentBitConfig
	MigrationsAuto bool
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present; envPath overrides its location.
func Load(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && len(envPath) > 0 {
		return nil, fmt.Errorf("could not load env file %s: %w", envPath[0], err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "myleasing")

	cfg.Database.Driver = strings.ToLower(getEnvAsString("DB_DRIVER", "postgres"))
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q, expected postgres or sqlite", cfg.Database.Driver)
	}
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
	}

	cfg.HTTP.Port = getEnvAsString("HTTP_PORT", "8080")
	cfg.HTTP.SecureCookies = getEnvAsBool("COOKIE_SECURE", false)

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in environment or .env file")
	}
	cfg.Auth.SessionTTL = getEnvAsDuration("SESSION_TTL", 24*time.Hour)

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	cfg.Mongo.Database = getEnvAsString("MONGO_DATABASE", "myleasing")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.MigrationsAuto = getEnvAsBool("MIGRATIONS_AUTO", false)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: %s=%q is not an int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: %s=%q is not a bool: %v. Using default value: %t\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil || valueDuration <= 0 {
		log.Printf("Warning: %s=%q is not a positive duration. Using default value: %s\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return valueDuration
}
