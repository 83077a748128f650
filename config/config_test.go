package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "." {
		t.Errorf("Expected OutputDir to be ., got %s", cfg.OutputDir)
	}
	if cfg.DBPath != "" {
		t.Errorf("Expected DBPath to be empty, got %s", cfg.DBPath)
	}
	if cfg.Log.Level != "INFO" {
		t.Errorf("Expected Log.Level to be INFO, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected Log.Format to be text, got %s", cfg.Log.Format)
	}
	if cfg.HTTP.Timeout != 0 {
		t.Errorf("Expected HTTP.Timeout to be 0, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %s", cfg.HTTP.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "lower case level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "debug" },
			wantErr: false,
		},
		{
			name:    "missing output dir",
			mutate:  func(cfg *Config) { cfg.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "TRACE" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(cfg *Config) { cfg.Log.Format = "logfmt" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(cfg *Config) { cfg.HTTP.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "empty user agent",
			mutate:  func(cfg *Config) { cfg.HTTP.UserAgent = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = ""
	cfg.HTTP.UserAgent = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Output directory") || !strings.Contains(err.Error(), "user agent") {
		t.Errorf("expected both problems in error, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "grabber.yaml")

	configContent := `output_dir: "/srv/playlists"
db_path: "/var/lib/grabber/history.db"
metrics_textfile: "/var/lib/node_exporter/grabber.prom"
log:
  level: "DEBUG"
  format: "json"
http:
  timeout: "15s"
  user_agent: "grabber-test/1.0"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.OutputDir != "/srv/playlists" {
		t.Errorf("Expected OutputDir to be /srv/playlists, got %s", cfg.OutputDir)
	}
	if cfg.DBPath != "/var/lib/grabber/history.db" {
		t.Errorf("Expected DBPath, got %s", cfg.DBPath)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/grabber.prom" {
		t.Errorf("Expected MetricsTextfile, got %s", cfg.MetricsTextfile)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Expected Log.Level to be DEBUG, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected Log.Format to be json, got %s", cfg.Log.Format)
	}
	if cfg.HTTP.Timeout != 15*time.Second {
		t.Errorf("Expected HTTP.Timeout to be 15s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "grabber-test/1.0" {
		t.Errorf("Expected user agent override, got %s", cfg.HTTP.UserAgent)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "grabber.yaml")
	if err := os.WriteFile(configPath, []byte("output_dir: out\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("Expected OutputDir to be out, got %s", cfg.OutputDir)
	}
	if cfg.HTTP.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent to survive, got %s", cfg.HTTP.UserAgent)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "grabber.yaml")
		if err := os.WriteFile(configPath, []byte("log: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := LoadFromFile(configPath); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"OUTPUT_DIR":       "/custom/out",
		"DB_PATH":          "/custom/history.db",
		"METRICS_TEXTFILE": "/custom/grabber.prom",
		"LOG_LEVEL":        "warn",
		"LOG_FORMAT":       "JSON",
		"HTTP_TIMEOUT":     "20s",
		"USER_AGENT":       "custom-agent",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.OutputDir != "/custom/out" {
		t.Errorf("Expected OutputDir to be /custom/out, got %s", cfg.OutputDir)
	}
	if cfg.DBPath != "/custom/history.db" {
		t.Errorf("Expected DBPath to be /custom/history.db, got %s", cfg.DBPath)
	}
	if cfg.MetricsTextfile != "/custom/grabber.prom" {
		t.Errorf("Expected MetricsTextfile override, got %s", cfg.MetricsTextfile)
	}
	if cfg.Log.Level != "WARN" {
		t.Errorf("Expected Log.Level to be WARN, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected Log.Format to be json, got %s", cfg.Log.Format)
	}
	if cfg.HTTP.Timeout != 20*time.Second {
		t.Errorf("Expected HTTP.Timeout to be 20s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "custom-agent" {
		t.Errorf("Expected user agent override, got %s", cfg.HTTP.UserAgent)
	}
}

func TestApplyEnvOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid timeout", "HTTP_TIMEOUT", "soon"},
		{"negative timeout", "HTTP_TIMEOUT", "-5s"},
		{"invalid level", "LOG_LEVEL", "TRACE"},
		{"invalid format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			cfg := Default()
			err := applyEnvOverrides(cfg)
			if err == nil {
				t.Fatalf("expected error for %s=%s", tt.envVar, tt.value)
			}
			if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		t.Setenv("GRABBER_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "." {
			t.Errorf("Expected default OutputDir, got %s", cfg.OutputDir)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "grabber.yaml")
		if err := os.WriteFile(configPath, []byte("output_dir: from-file\n"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		t.Setenv("GRABBER_CONFIG_FILE", configPath)
		t.Setenv("OUTPUT_DIR", "from-env")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "from-env" {
			t.Errorf("Expected env to win, got %s", cfg.OutputDir)
		}
	})

	t.Run("invalid file content fails validation", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "grabber.yaml")
		if err := os.WriteFile(configPath, []byte("log:\n  format: xml\n"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		t.Setenv("GRABBER_CONFIG_FILE", configPath)

		if _, err := Load(); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestPrint(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	cfg := Default()
	cfg.OutputDir = "/srv/playlists"
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Print()

	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	output := string(data)

	for _, want := range []string{"outputDir: /srv/playlists\n", "httpTimeout: 5s\n", "logLevel: INFO\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}
