package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr       string
	PostgresURL    string
	RedisAddr      string
	JaegerEndpoint string
	LogLevel       logrus.Level

	// RebuildOpsReadModel replays the data lake into the ops read model on start.
	RebuildOpsReadModel bool
}

// Load reads the configuration from the environment. Values from a .env file in the
// working directory are used for variables that are not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env: %w", err)
	}

	logLevel, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	rebuild, err := getenvBool("REBUILD_OPS_READ_MODEL", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		PostgresURL:         os.Getenv("POSTGRES_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		JaegerEndpoint:      jaegerEndpoint(),
		LogLevel:            logLevel,
		RebuildOpsReadModel: rebuild,
	}

	if cfg.PostgresURL == "" {
		return Config{}, errors.New("missing required env var: POSTGRES_URL")
	}
	if cfg.RedisAddr == "" {
		return Config{}, errors.New("missing required env var: REDIS_ADDR")
	}

	return cfg, nil
}

func jaegerEndpoint() string {
	if endpoint := os.Getenv("JAEGER_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if gateway := os.Getenv("GATEWAY_ADDR"); gateway != "" {
		return fmt.Sprintf("%s/jaeger-api/api/traces", gateway)
	}

	return ""
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q", key, v)
	}
	return b, nil
}
