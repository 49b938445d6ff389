package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"clicksign-esign/pkg/clicksign"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Clicksign ClicksignConfig `mapstructure:"clicksign"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
}

type ClicksignConfig struct {
	Host          string        `mapstructure:"host"`         // must end with "/"
	AccessToken   string        `mapstructure:"access_token"` // secret, never logged
	Timeout       time.Duration `mapstructure:"timeout"`      // seconds in the config file
	WebhookSecret string        `mapstructure:"webhook_secret"`
}

// VerifiesWebhooks reports whether incoming webhooks must carry a valid
// HMAC signature.
func (c *ClicksignConfig) VerifiesWebhooks() bool {
	return c.WebhookSecret != ""
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TrackingTTLHours bounds how long signature requests are tracked. Zero
	// keeps them forever.
	TrackingTTLHours int `mapstructure:"tracking_ttl_hours"`
}

func (r *RedisConfig) TrackingTTL() time.Duration {
	return time.Duration(r.TrackingTTLHours) * time.Hour
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	return LoadConfig(".", "./config")
}

// LoadConfig reads config.yaml from the first of paths that has one.
// Environment variables override file values, e.g. CLICKSIGN_ACCESS_TOKEN.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("app.name", "clicksign-esign")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")
	v.SetDefault("clicksign.host", clicksign.DefaultHost)
	v.SetDefault("clicksign.timeout", 30)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("logging.level", "info")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeout to duration
	cfg.Clicksign.Timeout = cfg.Clicksign.Timeout * time.Second

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
