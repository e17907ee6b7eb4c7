package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// --- Load tests ---

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, "910", cfg.Bandwidth.AreaCode)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
gateway:
  port: 8080
  bind: lan
bandwidth:
  userId: u-123
  areaCode: "415"
session:
  store: memory
  ttlMinutes: 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, "lan", cfg.Gateway.Bind)
	assert.Equal(t, "u-123", cfg.Bandwidth.UserID)
	assert.Equal(t, "415", cfg.Bandwidth.AreaCode)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 60, cfg.Session.TTLMinutes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "gateway: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TEXTLINE_PORT", "9999")
	t.Setenv("TEXTLINE_LOG_LEVEL", "DEBUG")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_BandwidthCredentialsFromEnv(t *testing.T) {
	t.Setenv("BANDWIDTH_USER_ID", "env-user")
	t.Setenv("BANDWIDTH_API_TOKEN", "env-token")
	t.Setenv("BANDWIDTH_API_SECRET", "env-secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Bandwidth.UserID)
	assert.Equal(t, "env-token", cfg.Bandwidth.APIToken)
	assert.Equal(t, "env-secret", cfg.Bandwidth.APISecret)
}

func TestLoad_ConfigCredentialsWinOverEnv(t *testing.T) {
	t.Setenv("BANDWIDTH_USER_ID", "env-user")
	path := writeConfig(t, "bandwidth:\n  userId: cfg-user\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cfg-user", cfg.Bandwidth.UserID)
}

func TestLoad_ExpandsSensitiveFields(t *testing.T) {
	t.Setenv("MY_SECRET", "s3cret")
	path := writeConfig(t, "bandwidth:\n  apiSecret: ${MY_SECRET}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Bandwidth.APISecret)
}

func TestExpandEnvVars_UnsetLeftAlone(t *testing.T) {
	assert.Equal(t, "${DEFINITELY_UNSET_VAR_42}", expandEnvVars("${DEFINITELY_UNSET_VAR_42}"))
}

// --- Validate tests ---

func validConfig() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.Port = 70000
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "gateway.port", issues[0].Path)
}

func TestValidate_BadBindMode(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.Bind = "everywhere"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "gateway.bind", issues[0].Path)
}

func TestValidate_TLSMissingPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.TLS.Enabled = true
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "gateway.tls", issues[0].Path)
}

func TestValidate_BadSessionStore(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Store = "redis"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "session.store", issues[0].Path)
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Session.TTLMinutes = -5
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "session.ttlMinutes", issues[0].Path)
}

// --- Raw access tests ---

func TestLoadRaw_MissingFileIsEmpty(t *testing.T) {
	raw, err := LoadRaw(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestRaw_SetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	raw, err := LoadRaw(path)
	require.NoError(t, err)

	segs, err := ParseConfigPath("gateway.port")
	require.NoError(t, err)
	SetValueAtPath(raw, segs, 8080)
	require.NoError(t, SaveRaw(path, raw))

	raw2, err := LoadRaw(path)
	require.NoError(t, err)
	val, ok := GetValueAtPath(raw2, segs)
	require.True(t, ok)
	assert.Equal(t, 8080, val)
}

func TestRaw_UnsetRemovesKey(t *testing.T) {
	raw := map[string]any{"session": map[string]any{"store": "memory"}}
	segs, err := ParseConfigPath("session.store")
	require.NoError(t, err)
	assert.True(t, UnsetValueAtPath(raw, segs))
	assert.False(t, UnsetValueAtPath(raw, segs))
}

func TestParseConfigPath_RejectsEmptySegment(t *testing.T) {
	_, err := ParseConfigPath("gateway..port")
	assert.Error(t, err)
	_, err = ParseConfigPath("")
	assert.Error(t, err)
}

// --- Paths tests ---

func TestResolvePaths_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEXTLINE_HOME", dir)
	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.Config)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEXTLINE_HOME", filepath.Join(dir, "tl"))
	p, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Base, p.Data, p.Logs} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
