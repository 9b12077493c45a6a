package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// ProviderConfig contains directions/geocoding provider configuration
type ProviderConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"omitempty,url"`
	APIKey    string `yaml:"apiKey"`
	Language  string `yaml:"language"`
	Region    string `yaml:"region"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// DelayConfig contains traffic delay estimation configuration.
// Severity cut points are tunable because observed deployments disagree
// on the exact minute boundaries.
type DelayConfig struct {
	LowMaxMinutes    float64 `yaml:"lowMaxMinutes" validate:"gte=0"`
	MediumMaxMinutes float64 `yaml:"mediumMaxMinutes" validate:"gte=0"`
	ProbeConcurrency int     `yaml:"probeConcurrency" validate:"gte=0"`
	ProbeTimeoutMS   int     `yaml:"probeTimeoutMS" validate:"gte=0"`
}

// PlannerConfig contains trip evaluation configuration
type PlannerConfig struct {
	WalkingBudgetMinutes float64 `yaml:"walkingBudgetMinutes" validate:"gte=0"`
	QueryTimeoutMS       int     `yaml:"queryTimeoutMS" validate:"gte=0"`
}

// LineCacheConfig contains static transit feed cache configuration
type LineCacheConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty,url"`
	LocalZip  string `yaml:"localZip"`
	DBPath    string `yaml:"dbPath"`
}

// MetricsConfig contains the optional Prometheus endpoint address.
// Empty disables the metrics server.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig    `yaml:"server" validate:"required"`
	Provider  ProviderConfig  `yaml:"provider"`
	Delay     DelayConfig     `yaml:"delay"`
	Planner   PlannerConfig   `yaml:"planner"`
	LineCache LineCacheConfig `yaml:"lineCache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
