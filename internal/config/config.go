package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	env_utils "storefront/internal/util/env"
	"storefront/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting       bool
	DatabaseDsn     string            `env:"DATABASE_DSN"       required:"true"`
	FeedsDatabase   string            `env:"FEEDS_DATABASE_DSN" required:"false"`
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"           required:"true"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH"  required:"false"`
	JwtSecret       string            `env:"JWT_SECRET"         required:"true"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"     required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"     required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME" required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD" required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   required:"true"`
	// datasource resilience
	MaxConnectionRetries int `env:"MAX_CONNECTION_RETRIES" env-default:"5"`
	RetryBaseDelayMs     int `env:"RETRY_BASE_DELAY_MS"    env-default:"1000"`
	// pagination; 0 disables clamping
	MaxPageLimit int `env:"MAX_PAGE_LIMIT" env-default:"0"`
	// per-client API rate limiting
	RateLimitRps   int `env:"RATE_LIMIT_RPS"   env-default:"100"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" env-default:"500"`
	// bootstrap admin account
	InitialAdminEmail    string `env:"INITIAL_ADMIN_EMAIL"    env-default:"admin@storefront.local"`
	InitialAdminPassword string `env:"INITIAL_ADMIN_PASSWORD" required:"false"`
}

func (e EnvVariables) RetryBaseDelay() time.Duration {
	return time.Duration(e.RetryBaseDelayMs) * time.Millisecond
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	env.BackendRootPath = backendRoot

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Warn("Could not find .env in any location, relying on process environment")
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if env.JwtSecret == "" {
		log.Error("JWT_SECRET is empty")
		os.Exit(1)
	}

	if env.EnvMode == "" {
		log.Error("ENV_MODE is empty")
		os.Exit(1)
	}
	if env.EnvMode != env_utils.EnvModeDevelopment && env.EnvMode != env_utils.EnvModeProduction {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}
	if env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	if env.MaxConnectionRetries < 1 {
		log.Error("MAX_CONNECTION_RETRIES must be at least 1")
		os.Exit(1)
	}
	if env.RetryBaseDelayMs < 1 {
		log.Error("RETRY_BASE_DELAY_MS must be at least 1")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!")
}
