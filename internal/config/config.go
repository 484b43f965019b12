package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Init loads the .env file outside Lambda and configures the shared logger.
// It must run before any other package reads the environment.
func Init() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			Logger.Debug("No .env file found, using system environment")
		}
	}

	Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	Logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(GetEnv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

// GetEnvList splits a comma separated variable, dropping empty entries.
func GetEnvList(key string, defaultValue ...string) []string {
	raw := GetEnv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
