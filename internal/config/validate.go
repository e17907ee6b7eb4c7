package config

import "fmt"

// Issue is a single validation problem found in a config.
type Issue struct {
	Path    string
	Message string
}

// Validate checks a loaded config for problems that would prevent the
// gateway from starting. It returns all issues found, not just the first.
func Validate(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Gateway.Port < 1 || cfg.Gateway.Port > 65535 {
		issues = append(issues, Issue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port %d out of range", cfg.Gateway.Port),
		})
	}

	switch cfg.Gateway.Bind {
	case "loopback", "lan", "custom":
	default:
		issues = append(issues, Issue{
			Path:    "gateway.bind",
			Message: "bind must be one of loopback, lan, custom",
		})
	}

	if cfg.Gateway.TLS.Enabled {
		if cfg.Gateway.TLS.CertPath == "" || cfg.Gateway.TLS.KeyPath == "" {
			issues = append(issues, Issue{
				Path:    "gateway.tls",
				Message: "tls enabled but certPath or keyPath missing",
			})
		}
	}

	switch cfg.Session.Store {
	case "sqlite", "memory":
	default:
		issues = append(issues, Issue{
			Path:    "session.store",
			Message: "store must be sqlite or memory",
		})
	}

	if cfg.Session.TTLMinutes < 0 {
		issues = append(issues, Issue{
			Path:    "session.ttlMinutes",
			Message: "ttlMinutes must not be negative",
		})
	}

	return issues
}
