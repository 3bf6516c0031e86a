package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL = %q, want empty (run history off by default)", cfg.Database.URL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if len(cfg.Matching.ClientKeywords) != 0 {
		t.Errorf("Matching.ClientKeywords = %v, want empty (built-in defaults)", cfg.Matching.ClientKeywords)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("SERVER_READ_TIMEOUT", "5s")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("MATCH_CLIENT_KEYWORDS", "account, buyer ,")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("MATCH_CLIENT_KEYWORDS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	want := []string{"account", "buyer"}
	if len(cfg.Matching.ClientKeywords) != len(want) {
		t.Fatalf("Matching.ClientKeywords = %v, want %v", cfg.Matching.ClientKeywords, want)
	}
	for i := range want {
		if cfg.Matching.ClientKeywords[i] != want[i] {
			t.Errorf("ClientKeywords[%d] = %q, want %q", i, cfg.Matching.ClientKeywords[i], want[i])
		}
	}
}

func TestLoad_DBAltVar(t *testing.T) {
	os.Setenv("DB_URL", "postgres://localhost/runs")
	defer os.Unsetenv("DB_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://localhost/runs" {
		t.Errorf("Database.URL = %q, want value from DB_URL", cfg.Database.URL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad port", key: "SERVER_PORT", value: "70000"},
		{name: "non-numeric port", key: "SERVER_PORT", value: "http"},
		{name: "bad duration", key: "SERVER_READ_TIMEOUT", value: "fast"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s: want error, got nil", tt.key, tt.value)
			}
		})
	}
}
