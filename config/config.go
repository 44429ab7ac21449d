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

// Config stores the application configuration.
type Config struct {
	ServerPort string

	// LRCLIB lyrics database
	LRCLibBaseURL   string
	LRCLibTimeout   time.Duration
	LRCLibUserAgent string

	// OpenAI-compatible chat API used for translation
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITimeout     time.Duration
	OpenAITemperature float64
	TargetLanguage    string

	// Redis lyrics cache, disabled when LyricsCacheTTL is zero
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	LyricsCacheTTL time.Duration

	// MySQL lookup log
	LookupLogEnabled bool
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvSeconds reads a whole number of seconds. Negative values fall back.
func getEnvSeconds(key string, fallback int) time.Duration {
	n := getEnvInt(key, fallback)
	if n < 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() does not override variables that are already set.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		LRCLibBaseURL:   strings.TrimRight(getEnv("LRCLIB_BASE_URL", "https://lrclib.net/api"), "/"),
		LRCLibTimeout:   getEnvSeconds("LRCLIB_TIMEOUT_SECONDS", 10),
		LRCLibUserAgent: getEnv("LRCLIB_USER_AGENT", "Tune-into-English/1.0"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout:     getEnvSeconds("OPENAI_TIMEOUT_SECONDS", 20),
		OpenAITemperature: getEnvFloat("OPENAI_TEMPERATURE", 0.2),
		TargetLanguage:    getEnv("TRANSLATE_TARGET_LANGUAGE", "Japanese"),

		RedisHost:      getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		LyricsCacheTTL: getEnvSeconds("LYRICS_CACHE_TTL_SECONDS", 0),

		LookupLogEnabled: getEnvBool("LOOKUP_LOG_ENABLED", false),
		DBHost:           getEnv("DB_HOST", "127.0.0.1"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "root"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getEnv("DB_NAME", "lyrics"),

		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
	}
}

// TranslationEnabled reports whether an API key for the chat API is configured.
func (c *Config) TranslationEnabled() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

// CacheEnabled reports whether resolved lyrics are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.LyricsCacheTTL > 0
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// MySQLDSN returns the DSN used by the lookup log.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
