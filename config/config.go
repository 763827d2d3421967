package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Empty disables messaging.
	RabbitURL string

	// Empty address disables Redis: rooms lock in process and nothing is rate limited.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitMax    int
	RateLimitWindow time.Duration

	Timezone        string
	CheckInHour     int
	CheckOutHour    int
	OrderCodePrefix string

	AdminAPIToken string
	CORSOrigins   []string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment only")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "homestay"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		RateLimitMax:    getInt("RATE_LIMIT_MAX", 120),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Minute),

		Timezone:        getEnv("APP_TIMEZONE", "Asia/Bangkok"),
		CheckInHour:     getInt("DEFAULT_CHECKIN_HOUR", 14),
		CheckOutHour:    getInt("DEFAULT_CHECKOUT_HOUR", 12),
		OrderCodePrefix: getEnv("ORDER_CODE_PREFIX", "OD"),

		AdminAPIToken: os.Getenv("ADMIN_API_TOKEN"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Location resolves APP_TIMEZONE, the zone stay dates are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.CheckInHour < 0 || c.CheckInHour > 23 {
		return fmt.Errorf("DEFAULT_CHECKIN_HOUR must be 0-23, got %d", c.CheckInHour)
	}
	if c.CheckOutHour < 0 || c.CheckOutHour > 23 {
		return fmt.Errorf("DEFAULT_CHECKOUT_HOUR must be 0-23, got %d", c.CheckOutHour)
	}
	if strings.TrimSpace(c.OrderCodePrefix) == "" {
		return fmt.Errorf("ORDER_CODE_PREFIX must not be empty")
	}
	if c.RedisAddr != "" && (c.RateLimitMax <= 0 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	_, err := c.Location()
	return err
}

// SetupLogger applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c *Config) SetupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("value", c.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", v, fallback)
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, fallback)
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
