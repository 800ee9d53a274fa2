package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// DatabaseConfig.GetDSN
// ---------------------------------------------------------------------------

func TestGetDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard config",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "annuaire",
				Password: "secret",
				Name:     "annuaire",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=annuaire password=secret dbname=annuaire sslmode=disable",
		},
		{
			name: "empty password",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "admin",
				Password: "",
				Name:     "directory",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 user=admin password= dbname=directory sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.GetDSN()
			if got != tt.want {
				t.Errorf("GetDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent explicit config file")
	}

	// No explicit path: defaults apply even without a config file on disk.
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.Mode != "mock" {
		t.Errorf("default auth mode = %q, want mock", cfg.Auth.Mode)
	}
	if cfg.Database.MaxConnections != 25 {
		t.Errorf("default max connections = %d, want 25", cfg.Database.MaxConnections)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("ANU_DATABASE_NAME", "annuaire_test")
	t.Setenv("ANU_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Name != "annuaire_test" {
		t.Errorf("database name = %q, want annuaire_test", cfg.Database.Name)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidateAuthMode(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080, BaseURL: "http://localhost:8080"},
		Database: DatabaseConfig{Host: "localhost", Name: "annuaire", User: "annuaire"},
		Auth:     AuthConfig{Mode: "mock", Env: "production"},
		Logging:  LoggingConfig{Level: "info"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected mock auth outside development to be rejected")
	}

	cfg.Auth.Env = "development"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Auth.Mode = "basic"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown auth mode to be rejected")
	}
}
