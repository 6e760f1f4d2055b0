package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"DBPath", cfg.DBPath, ""},
		{"Env", cfg.Env, "production"},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"LogFormat", cfg.LogFormat, ""},
		{"SentryDSN", cfg.SentryDSN, ""},
		{"MoneyUnit", cfg.MoneyUnit, "$"},
		{"Locale", cfg.Locale, "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if cfg.IsDev() {
		t.Errorf("IsDev() = true for default env")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("CLEANSTEPS_DB_PATH", "/tmp/cs.db")
	t.Setenv("CLEANSTEPS_LOG_LEVEL", "DEBUG")
	t.Setenv("CLEANSTEPS_ENV", "dev")
	viper.SetEnvPrefix("CLEANSTEPS")
	viper.AutomaticEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/cs.db" {
		t.Errorf("DBPath = %q, want /tmp/cs.db", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.IsDev() {
		t.Errorf("IsDev() = false, want true")
	}
}

func TestSetup_ConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "cs.toml")
	content := "money_unit = \"€\"\nlog_format = \"json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Setup(path); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MoneyUnit != "€" {
		t.Errorf("MoneyUnit = %q, want €", cfg.MoneyUnit)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestSetup_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	if err := Setup(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoad_RejectsBadLevel(t *testing.T) {
	viper.Reset()
	viper.Set("log_level", "loud")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for log_level=loud")
	}
}

func TestRender_MasksSentryDSN(t *testing.T) {
	cfg := Config{LogLevel: "info", SentryDSN: "https://key@sentry.example/1", MoneyUnit: "$"}
	out, err := cfg.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "sentry.example") {
		t.Errorf("rendered config leaks DSN:\n%s", s)
	}
	if !strings.Contains(s, "money_unit = '$'") && !strings.Contains(s, `money_unit = "$"`) {
		t.Errorf("rendered config missing money_unit:\n%s", s)
	}
}
