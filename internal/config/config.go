package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type AuthConfig struct {
	AccessSecret string
}

type PricingConfig struct {
	HourlyRate float64
	DailyRate  float64
	ValetFee   float64
}

type ImportConfig struct {
	Workers int
	MaxRows int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Auth        AuthConfig
	FeePolicy   string
	Pricing     PricingConfig
	Import      ImportConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		FeePolicy: v.GetString("FEE_POLICY"),
		Pricing: PricingConfig{
			HourlyRate: v.GetFloat64("PRICING_HOURLY_RATE"),
			DailyRate:  v.GetFloat64("PRICING_DAILY_RATE"),
			ValetFee:   v.GetFloat64("PRICING_VALET_FEE"),
		},
		Import: ImportConfig{
			Workers: v.GetInt("IMPORT_WORKERS"),
			MaxRows: v.GetInt("IMPORT_MAX_ROWS"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.FeePolicy == "" {
		cfg.FeePolicy = "threshold"
	}
	// Rates the office has always used; overridable per deployment.
	if cfg.Pricing.HourlyRate == 0 {
		cfg.Pricing.HourlyRate = 35
	}
	if cfg.Pricing.DailyRate == 0 {
		cfg.Pricing.DailyRate = 210
	}
	if cfg.Pricing.ValetFee == 0 {
		cfg.Pricing.ValetFee = 50
	}
	if cfg.Import.Workers <= 0 {
		cfg.Import.Workers = 8
	}
	if cfg.Import.MaxRows <= 0 {
		cfg.Import.MaxRows = 20000
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.FeePolicy != "threshold" && cfg.FeePolicy != "flat" {
		return fmt.Errorf("FEE_POLICY must be \"threshold\" or \"flat\", got %q", cfg.FeePolicy)
	}
	if cfg.Pricing.HourlyRate < 0 || cfg.Pricing.DailyRate < 0 || cfg.Pricing.ValetFee < 0 {
		return fmt.Errorf("pricing rates cannot be negative")
	}
	return nil
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
