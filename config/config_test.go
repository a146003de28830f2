package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes a temporary YAML config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/app.db"
  busy_timeout: 5000
  readonly: true
logging:
  enabled: true
  level: "debug"
  format: "text"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/app.db" {
		t.Errorf("Path = %q", cfg.Database.Path)
	}
	if cfg.Database.BusyTimeout != 5000 {
		t.Errorf("BusyTimeout = %d", cfg.Database.BusyTimeout)
	}
	if !cfg.Database.Readonly {
		t.Error("Readonly = false, want true")
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.BusyTimeout != defaultBusyTimeout {
		t.Errorf("BusyTimeout = %d, want %d", cfg.Database.BusyTimeout, defaultBusyTimeout)
	}
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled = true, want default off")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/file.db"
`)

	t.Setenv("FLUENTLITE_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("FLUENTLITE_DATABASE_BUSY_TIMEOUT", "15000")
	t.Setenv("FLUENTLITE_DATABASE_FILE_MUST_EXIST", "yes")
	t.Setenv("FLUENTLITE_DATABASE_VERBOSE", "1")
	t.Setenv("FLUENTLITE_LOGGING_ENABLED", "true")
	t.Setenv("FLUENTLITE_LOGGING_LEVEL", "warn")
	t.Setenv("FLUENTLITE_LOGGING_FORMAT", "text")
	t.Setenv("FLUENTLITE_LOGGING_OUTPUT", "stderr")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Database.BusyTimeout != 15000 {
		t.Errorf("BusyTimeout = %d, want env override", cfg.Database.BusyTimeout)
	}
	if !cfg.Database.FileMustExist || !cfg.Database.Verbose {
		t.Errorf("Database bool overrides = %+v", cfg.Database)
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled = false, want env override")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Output != "stderr" {
		t.Errorf("Logging overrides = %+v", cfg.Logging)
	}
}

func TestEnvOverrideBadTimeout(t *testing.T) {
	path := writeConfig(t, `
database:
  busy_timeout: 4000
`)

	t.Setenv("FLUENTLITE_DATABASE_BUSY_TIMEOUT", "soon")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.BusyTimeout != 4000 {
		t.Errorf("BusyTimeout = %d, want unparsable override ignored", cfg.Database.BusyTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Database.BusyTimeout = -1 },
			wantErr: true,
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
