package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

// ConfigPathEnv - путь к config.yml, если он лежит не в рабочей директории.
const ConfigPathEnv = "TASKBOARD_CONFIG"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Health     HealthConfig     `mapstructure:"health"`
}

type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               string        `mapstructure:"port" validate:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	RateLimitRPM       int           `mapstructure:"rate_limit_rpm" validate:"gte=0"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections" validate:"gte=1"`
	MinConnections int32         `mapstructure:"min_connections" validate:"gte=0,ltefield=MaxConnections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout" validate:"gte=0"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

type CacheConfig struct {
	// пустой URL отключает кэш
	URL          string        `mapstructure:"url"`
	Key          string        `mapstructure:"key" validate:"required"`
	TTL          time.Duration `mapstructure:"ttl" validate:"gt=0"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=-1"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" validate:"oneof=postgres inmemory"` // "postgres" или "inmemory"
}

type AdminConfig struct {
	PgAdminURL      string `mapstructure:"pgadmin_url"`
	RedisInsightURL string `mapstructure:"redisinsight_url"`
}

type HealthConfig struct {
	// 0 отключает фоновую проверку
	WatchInterval time.Duration `mapstructure:"watch_interval" validate:"gte=0"`
}

// ValidationError собирает все найденные проблемы, чтобы показать их разом.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "проверка конфигурации не пройдена:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// переменные окружения без префикса, как их задаёт docker-compose
var envBindings = map[string]string{
	"server.port":                 "PORT",
	"server.cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
	"server.rate_limit_rpm":       "RATE_LIMIT_RPM",
	"database.url":                "DATABASE_URL",
	"cache.url":                   "REDIS_URL",
	"logging.level":               "LOG_LEVEL",
	"logging.development":         "LOG_DEVELOPMENT",
	"repository.type":             "REPOSITORY_TYPE",
	"admin.pgadmin_url":           "PGADMIN_URL",
	"admin.redisinsight_url":      "REDISINSIGHT_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rpm", 0)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.startup_timeout", 30*time.Second)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("cache.url", "redis://localhost:6379")
	v.SetDefault("cache.key", "tasks:all")
	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("cache.dial_timeout", time.Second)
	v.SetDefault("cache.read_timeout", 500*time.Millisecond)
	v.SetDefault("cache.write_timeout", 500*time.Millisecond)
	v.SetDefault("cache.max_retries", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("repository.type", RepositoryPostgres)

	v.SetDefault("admin.pgadmin_url", "")
	v.SetDefault("admin.redisinsight_url", "")

	v.SetDefault("health.watch_interval", 30*time.Second)
}

// Load читает .env (если есть), config.yml (если есть) и переменные окружения.
// Окружение важнее файла.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("чтение .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("привязка %s: %w", env, err)
		}
	}

	if path := os.Getenv(ConfigPathEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("не могу прочитать %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	cfg.Server.CORSAllowedOrigins = splitOrigins(cfg.Server.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate возвращает *ValidationError со всеми нарушениями сразу.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("port", validatePort); err != nil {
		return fmt.Errorf("регистрация проверки port: %w", err)
	}

	var problems []string

	if c.Repository.Type == RepositoryPostgres {
		problems = append(problems, databaseURLProblems(c.Database.URL)...)
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("проверка конфигурации: %w", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func databaseURLProblems(url string) []string {
	switch {
	case strings.TrimSpace(url) == "":
		return []string{"DATABASE_URL is required but not set"}
	case !strings.HasPrefix(url, "postgresql://") && !strings.HasPrefix(url, "postgres://"):
		return []string{"DATABASE_URL must be a valid PostgreSQL connection string (postgresql://...)"}
	}
	return nil
}

func validatePort(fl validator.FieldLevel) bool {
	port, err := strconv.Atoi(fl.Field().String())
	return err == nil && port >= 1 && port <= 65535
}

func describe(fe validator.FieldError) string {
	switch fe.Namespace() {
	case "Config.Server.Port":
		return fmt.Sprintf("PORT must be a valid port number (1-65535), got: %v", fe.Value())
	case "Config.Logging.Level":
		return fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got: %v", fe.Value())
	case "Config.Repository.Type":
		return fmt.Sprintf("REPOSITORY_TYPE must be postgres or inmemory, got: %v", fe.Value())
	case "Config.Server.RateLimitRPM":
		return fmt.Sprintf("RATE_LIMIT_RPM must not be negative, got: %v", fe.Value())
	}
	return fmt.Sprintf("%s failed %q check (value: %v)", fe.Namespace(), fe.Tag(), fe.Value())
}

// CORS_ALLOWED_ORIGINS приходит одной строкой через запятую.
func splitOrigins(raw []string) []string {
	var origins []string
	for _, item := range raw {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}
