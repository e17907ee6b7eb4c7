package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError is a configuration load or parse failure.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so secrets can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Bandwidth.UserID = expandEnvVars(cfg.Bandwidth.UserID)
	cfg.Bandwidth.APIToken = expandEnvVars(cfg.Bandwidth.APIToken)
	cfg.Bandwidth.APISecret = expandEnvVars(cfg.Bandwidth.APISecret)
	cfg.Gateway.WebhookSecret = expandEnvVars(cfg.Gateway.WebhookSecret)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 3000
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = "loopback"
	}
	if cfg.Bandwidth.AreaCode == "" {
		cfg.Bandwidth.AreaCode = "910"
	}
	if cfg.Bandwidth.BaseURL == "" {
		cfg.Bandwidth.BaseURL = "https://api.catapult.inetwork.com/v1"
	}
	if cfg.Bandwidth.ApplicationName == "" {
		cfg.Bandwidth.ApplicationName = "Textline"
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "sqlite"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = "pretty"
	}
}

// applyEnvOverrides reads TEXTLINE_* and provider environment variables and
// overrides config values. The BANDWIDTH_* names match what the provider's
// own tooling exports.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEXTLINE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("TEXTLINE_BIND"); v != "" {
		cfg.Gateway.Bind = v
	}
	if v := os.Getenv("TEXTLINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if cfg.Bandwidth.UserID == "" {
		cfg.Bandwidth.UserID = os.Getenv("BANDWIDTH_USER_ID")
	}
	if cfg.Bandwidth.APIToken == "" {
		cfg.Bandwidth.APIToken = os.Getenv("BANDWIDTH_API_TOKEN")
	}
	if cfg.Bandwidth.APISecret == "" {
		cfg.Bandwidth.APISecret = os.Getenv("BANDWIDTH_API_SECRET")
	}
	if v := os.Getenv("AREA_CODE"); v != "" {
		cfg.Bandwidth.AreaCode = v
	}
}
