package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml.
// The provider API key may also come from the environment (SMARTBUS_API_KEY or
// GOOGLE_API_KEY), optionally via a .env file, and overrides the YAML value.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()
	if key := firstNonEmpty(os.Getenv("SMARTBUS_API_KEY"), os.Getenv("GOOGLE_API_KEY")); key != "" {
		cfg.Provider.APIKey = key
	}

	Config = cfg
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Provider.Language == "" {
		cfg.Provider.Language = "he"
	}
	if cfg.Provider.Region == "" {
		cfg.Provider.Region = "il"
	}
	if cfg.Provider.TimeoutMS == 0 {
		cfg.Provider.TimeoutMS = 10000
	}
	if cfg.Delay.LowMaxMinutes == 0 {
		cfg.Delay.LowMaxMinutes = 5
	}
	if cfg.Delay.MediumMaxMinutes == 0 {
		cfg.Delay.MediumMaxMinutes = 12
	}
	if cfg.Delay.ProbeConcurrency == 0 {
		cfg.Delay.ProbeConcurrency = 4
	}
	if cfg.Delay.ProbeTimeoutMS == 0 {
		cfg.Delay.ProbeTimeoutMS = 5000
	}
	if cfg.Planner.WalkingBudgetMinutes == 0 {
		cfg.Planner.WalkingBudgetMinutes = 15
	}
	if cfg.Planner.QueryTimeoutMS == 0 {
		cfg.Planner.QueryTimeoutMS = 30000
	}
	if cfg.LineCache.DBPath == "" {
		cfg.LineCache.DBPath = "lines.db"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
