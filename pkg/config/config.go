package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Planner PlannerConfig
	Catalog CatalogConfig
	Exports ExportsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig bounds schedule searches and controls session lifetime.
type PlannerConfig struct {
	DefaultDayOff string
	SessionTTL    time.Duration
	MaxCourses    int
	MaxSections   int
	SearchTimeout time.Duration
	CacheEnabled  bool
	CacheTTL      time.Duration
}

// CatalogConfig configures catalog file import.
type CatalogConfig struct {
	CSVDelimiter rune
}

// ExportsConfig sets where rendered timetables are written and how long download
// links stay valid.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	RetentionTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		DefaultDayOff: v.GetString("PLANNER_DEFAULT_DAY_OFF"),
		SessionTTL:    parseDuration(v.GetString("PLANNER_SESSION_TTL"), 30*time.Minute),
		MaxCourses:    positiveOr(v.GetInt("PLANNER_MAX_COURSES"), 12),
		MaxSections:   positiveOr(v.GetInt("PLANNER_MAX_SECTIONS"), 400),
		SearchTimeout: parseDuration(v.GetString("PLANNER_SEARCH_TIMEOUT"), 10*time.Second),
		CacheEnabled:  v.GetBool("PLANNER_CACHE_ENABLED"),
		CacheTTL:      parseDuration(v.GetString("PLANNER_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Catalog = CatalogConfig{CSVDelimiter: ParseDelimiter(v.GetString("CATALOG_CSV_DELIMITER"), ';')}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		RetentionTTL:    parseDuration(v.GetString("EXPORTS_RETENTION_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_DEFAULT_DAY_OFF", "")
	v.SetDefault("PLANNER_SESSION_TTL", "30m")
	v.SetDefault("PLANNER_MAX_COURSES", 12)
	v.SetDefault("PLANNER_MAX_SECTIONS", 400)
	v.SetDefault("PLANNER_SEARCH_TIMEOUT", "10s")
	v.SetDefault("PLANNER_CACHE_ENABLED", false)
	v.SetDefault("PLANNER_CACHE_TTL", "15m")

	v.SetDefault("CATALOG_CSV_DELIMITER", ";")
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_RETENTION_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

// ParseDelimiter reads a single-character separator; "tab" and `\t` mean a tab.
func ParseDelimiter(raw string, fallback rune) rune {
	switch raw {
	case "":
		return fallback
	case `\t`, "tab":
		return '\t'
	}
	runes := []rune(raw)
	if len(runes) != 1 {
		return fallback
	}
	return runes[0]
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
