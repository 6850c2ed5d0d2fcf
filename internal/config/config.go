package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Tracing    TracingConfig `mapstructure:"tracing"`
	Redis      RedisConfig
	AI         AIConfig
	AISettings AISettingsConfig `mapstructure:"ai_settings"`
	Selection  SelectionConfig  `mapstructure:"selection"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Log        LogConfig        `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig Level 为空时按 server.mode 决定
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	APIKey             string `mapstructure:"api_key"`
	Model              string `mapstructure:"model"`
	GenerationEnabled  bool   `mapstructure:"generation_enabled"`
	MaxAttempts        int    `mapstructure:"max_attempts"`
	RateLimitBackoffMS int    `mapstructure:"rate_limit_backoff_ms"`
	ErrorBackoffMS     int    `mapstructure:"error_backoff_ms"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	RequestsPerMinute  int    `mapstructure:"requests_per_minute"`
}

type AISettingsConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// SelectionConfig 选题流水线可调参数
type SelectionConfig struct {
	OverFetchMultiplier     int  `mapstructure:"over_fetch_multiplier"`
	TagsContainRetry        bool `mapstructure:"tags_contain_retry"`
	CategoryCacheTTLSeconds int  `mapstructure:"category_cache_ttl_seconds"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func (c AIConfig) RateLimitBackoff() time.Duration {
	return time.Duration(c.RateLimitBackoffMS) * time.Millisecond
}

func (c AIConfig) ErrorBackoff() time.Duration {
	return time.Duration(c.ErrorBackoffMS) * time.Millisecond
}

func (c AISettingsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c SelectionConfig) CategoryCacheTTL() time.Duration {
	return time.Duration(c.CategoryCacheTTLSeconds) * time.Second
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.file", "logs/app.log")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "require")
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.generation_enabled", true)
	viper.SetDefault("ai.max_attempts", 3)
	viper.SetDefault("ai.rate_limit_backoff_ms", 1000)
	viper.SetDefault("ai.error_backoff_ms", 500)
	viper.SetDefault("ai.timeout_seconds", 60)
	viper.SetDefault("ai.requests_per_minute", 30)
	viper.SetDefault("ai_settings.cache_ttl_seconds", 60)
	viper.SetDefault("selection.over_fetch_multiplier", 3)
	viper.SetDefault("selection.tags_contain_retry", false)
	viper.SetDefault("selection.category_cache_ttl_seconds", 300)
	viper.SetDefault("rate_limit.max_requests", 600)
	viper.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ASSESSMENT")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")
	viper.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// JWT（Supabase 项目的 JWT secret）
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.port", "SERVER_PORT")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("ai.generation_enabled", "AI_GENERATION_ENABLED")

	// Log
	viper.BindEnv("log.level", "LOG_LEVEL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Selection.OverFetchMultiplier < 1 {
		cfg.Selection.OverFetchMultiplier = 1
	}
	if cfg.AI.MaxAttempts < 1 {
		cfg.AI.MaxAttempts = 1
	}

	return &cfg, nil
}
