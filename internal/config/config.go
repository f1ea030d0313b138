package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	DatabaseURL string

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		ServerAddr: EnvDefault("SERVER_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AccessSecret:  []byte(os.Getenv("JWT_ACCESS_SECRET")),
		RefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:     EnvDurationDefault("JWT_ACCESS_EXPIRES", 900*time.Second),
		RefreshTTL:    EnvDurationDefault("JWT_REFRESH_EXPIRES", 7*24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "user_events"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

// MustValidate enforces the startup-fatal configuration contract: the
// process must not come up with a missing signing secret.
func (c *Config) MustValidate() {
	MustNonEmptyBytes(c.AccessSecret, "JWT_ACCESS_SECRET")
	MustNonEmptyBytes(c.RefreshSecret, "JWT_REFRESH_SECRET")
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
