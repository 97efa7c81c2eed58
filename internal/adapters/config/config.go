package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	Telegram   TelegramConfig
	AI         AIConfig
	Agent      AgentConfig
	Thresholds ThresholdsConfig
	Logging    LoggingConfig
	Health     HealthConfig

	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./templates"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	Name           string `envconfig:"DB_NAME" default:"seller_bot"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"./migrations"`
}

// ClickHouseConfig holds ClickHouse connection settings for tool usage metrics
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"seller_bot"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
}

// RedisConfig holds Redis connection settings for locks and conversation cache
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// TelegramConfig holds Telegram bot settings
type TelegramConfig struct {
	BotToken   string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	AdminID    int64  `envconfig:"TELEGRAM_ADMIN_ID" default:"0"`
	DigestHour int    `envconfig:"TELEGRAM_DIGEST_HOUR" default:"9"`
}

// AIConfig holds settings for all LLM providers
type AIConfig struct {
	OpenAI   ProviderConfig `envconfig:"OPENAI"`
	DeepSeek ProviderConfig `envconfig:"DEEPSEEK"`
}

// ProviderConfig holds settings for a single LLM provider
type ProviderConfig struct {
	APIKey  string `envconfig:"API_KEY" default:""`
	Model   string `envconfig:"MODEL" default:""`
	BaseURL string `envconfig:"BASE_URL" default:""`
}

// AgentConfig holds reasoning loop settings
type AgentConfig struct {
	Mode         string `envconfig:"AGENT_MODE" default:"pipeline"`
	MaxToolCalls int    `envconfig:"AGENT_MAX_TOOL_CALLS" default:"8"`
	HistoryDepth int    `envconfig:"AGENT_HISTORY_DEPTH" default:"10"`
}

// ThresholdsConfig holds all analytics classification thresholds
type ThresholdsConfig struct {
	WB      WBThresholds
	Ozon    OzonThresholds
	Drivers DriverThresholds
	Anomaly AnomalyConfig
	Plan    PlanConfig
}

// WBThresholds holds Wildberries campaign and product classification bounds
type WBThresholds struct {
	MaxDRR           float64 `envconfig:"WB_MAX_DRR" default:"15"`
	MinScalableCR    float64 `envconfig:"WB_MIN_SCALABLE_CR" default:"8"`
	HighAdShare      float64 `envconfig:"WB_HIGH_AD_SHARE" default:"50"`
	LowMarginPercent float64 `envconfig:"WB_LOW_MARGIN_PERCENT" default:"20"`
	LowStock         int64   `envconfig:"WB_LOW_STOCK" default:"50"`
}

// OzonThresholds holds Ozon campaign and product classification bounds
type OzonThresholds struct {
	UrgentDRR     float64 `envconfig:"OZON_URGENT_DRR" default:"30"`
	MaxDRR        float64 `envconfig:"OZON_MAX_DRR" default:"15"`
	MinScalableCR float64 `envconfig:"OZON_MIN_SCALABLE_CR" default:"5"`
	LowCR         float64 `envconfig:"OZON_LOW_CR" default:"1"`
	MinViews      int64   `envconfig:"OZON_MIN_VIEWS" default:"100"`
	HighCartRate  float64 `envconfig:"OZON_HIGH_CART_RATE" default:"10"`
	LowOrderRate  float64 `envconfig:"OZON_LOW_ORDER_RATE" default:"2"`
}

// DriverThresholds holds minimum changes treated as significant
// when explaining a metric move between two periods
type DriverThresholds struct {
	MarginChangePct  float64 `envconfig:"DRIVER_MARGIN_CHANGE_PCT" default:"10"`
	AdSpendChangePct float64 `envconfig:"DRIVER_AD_SPEND_CHANGE_PCT" default:"20"`
	TrafficChangePct float64 `envconfig:"DRIVER_TRAFFIC_CHANGE_PCT" default:"15"`
	CRChangePP       float64 `envconfig:"DRIVER_CR_CHANGE_PP" default:"0.5"`
	PriceChangePct   float64 `envconfig:"DRIVER_PRICE_CHANGE_PCT" default:"5"`
}

// AnomalyConfig holds rolling z-score detection settings
type AnomalyConfig struct {
	Window int     `envconfig:"ANOMALY_WINDOW" default:"7"`
	ZScore float64 `envconfig:"ANOMALY_ZSCORE" default:"2"`
}

// PlanConfig holds plan completion status bounds
type PlanConfig struct {
	GoodPercent         float64 `envconfig:"PLAN_GOOD_PERCENT" default:"100"`
	WarnPercent         float64 `envconfig:"PLAN_WARN_PERCENT" default:"85"`
	UnderperformPercent float64 `envconfig:"PLAN_UNDERPERFORM_PERCENT" default:"70"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// HealthConfig holds health check server settings
type HealthConfig struct {
	Port string `envconfig:"HEALTH_PORT" default:"8080"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Agent.Mode != "pipeline" && c.Agent.Mode != "react" {
		return fmt.Errorf("invalid AGENT_MODE: %s (must be pipeline or react)", c.Agent.Mode)
	}
	if c.Agent.MaxToolCalls < 1 {
		return fmt.Errorf("AGENT_MAX_TOOL_CALLS must be positive")
	}
	if c.Telegram.DigestHour < 0 || c.Telegram.DigestHour > 23 {
		return fmt.Errorf("TELEGRAM_DIGEST_HOUR must be between 0 and 23")
	}
	if c.Thresholds.Anomaly.Window < 2 {
		return fmt.Errorf("ANOMALY_WINDOW must be at least 2")
	}
	if c.Thresholds.Anomaly.ZScore <= 0 {
		return fmt.Errorf("ANOMALY_ZSCORE must be positive")
	}
	if c.Thresholds.WB.MaxDRR <= 0 || c.Thresholds.Ozon.MaxDRR <= 0 {
		return fmt.Errorf("DRR thresholds must be positive")
	}
	if c.Thresholds.Ozon.UrgentDRR < c.Thresholds.Ozon.MaxDRR {
		return fmt.Errorf("OZON_URGENT_DRR must not be below OZON_MAX_DRR")
	}
	if c.Thresholds.Plan.WarnPercent > c.Thresholds.Plan.GoodPercent {
		return fmt.Errorf("PLAN_WARN_PERCENT must not exceed PLAN_GOOD_PERCENT")
	}
	return nil
}

// GetDSN returns a PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// GetDSN returns a ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

// GetAddr returns the Redis address in host:port form
func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
