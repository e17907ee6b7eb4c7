package config

// Config is the root configuration for Textline.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway,omitempty"`
	Bandwidth BandwidthConfig `yaml:"bandwidth,omitempty"`
	Session   SessionConfig   `yaml:"session,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// GatewayConfig controls the HTTP server.
type GatewayConfig struct {
	Port           int        `yaml:"port,omitempty"`
	Bind           string     `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string     `yaml:"customBindHost,omitempty"`
	StaticDir      string     `yaml:"staticDir,omitempty"`
	WebhookSecret  string     `yaml:"webhookSecret,omitempty"` // optional shared secret for provider callbacks
	AllowedOrigins []string   `yaml:"allowedOrigins,omitempty"`
	TLS            GatewayTLS `yaml:"tls,omitempty"`
}

// GatewayTLS configures TLS for the gateway listener.
type GatewayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// BandwidthConfig holds the process-wide provider defaults. Sessions may
// carry their own credentials; these are the fallback.
type BandwidthConfig struct {
	UserID          string `yaml:"userId,omitempty"`
	APIToken        string `yaml:"apiToken,omitempty"`
	APISecret       string `yaml:"apiSecret,omitempty"`
	AreaCode        string `yaml:"areaCode,omitempty"`
	BaseURL         string `yaml:"baseUrl,omitempty"`
	CallbackBaseURL string `yaml:"callbackBaseUrl,omitempty"` // overrides the request host when building callback URLs
	ApplicationName string `yaml:"applicationName,omitempty"`
}

// SessionConfig defines session storage behavior.
type SessionConfig struct {
	Store      string `yaml:"store,omitempty"` // "sqlite" | "memory"
	TTLMinutes int    `yaml:"ttlMinutes,omitempty"` // 0 disables expiry
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
