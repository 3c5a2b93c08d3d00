package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgetdb.yaml")
	data := []byte(`logger:
  level: debug
  json: true
http-server:
  port: 9090
store:
  max_page_size: 100
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Fatalf("unexpected logger config %+v", cfg.Logger)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadHeaderTimeout != time.Second {
		t.Fatalf("unset field lost its default: %v", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Store.MaxPageSize != 100 || cfg.Store.DefaultPageSize != 10 {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoad_EnvPort(t *testing.T) {
	t.Setenv(envPort, "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("expected port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("logger:\n  level: loud\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, field: "Port"},
		{name: "no read header timeout", mutate: func(c *Config) { c.Server.ReadHeaderTimeout = 0 }, field: "ReadHeaderTimeout"},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, field: "ShutdownTimeout"},
		{name: "unknown level", mutate: func(c *Config) { c.Logger.Level = "loud" }, field: "Level"},
		{name: "max below default", mutate: func(c *Config) { c.Store.MaxPageSize = 5 }, field: "MaxPageSize"},
		{name: "zero default page", mutate: func(c *Config) { c.Store.DefaultPageSize = 0 }, field: "DefaultPageSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if verrs[0].Field() != tt.field {
				t.Fatalf("expected failure on %s, got %s", tt.field, verrs[0].Field())
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestLoad_RejectsZeroTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http-server:\n  read_header_timeout: 0s\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for zero read_header_timeout")
	}
}
