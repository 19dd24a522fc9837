package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultPath != DefaultPath {
		t.Errorf("DefaultPath = %q, want %q", cfg.DefaultPath, DefaultPath)
	}

	if cfg.Execution.Strategy != DefaultStrategy {
		t.Errorf("Execution.Strategy = %q, want %q", cfg.Execution.Strategy, DefaultStrategy)
	}

	if cfg.Execution.Shape != DefaultShape {
		t.Errorf("Execution.Shape = %q, want %q", cfg.Execution.Shape, DefaultShape)
	}

	if cfg.Execution.Workers != 0 {
		t.Errorf("Execution.Workers = %d, want 0 (auto)", cfg.Execution.Workers)
	}

	if cfg.Execution.BatchDivisor != DefaultBatchDivisor {
		t.Errorf("Execution.BatchDivisor = %d, want %d", cfg.Execution.BatchDivisor, DefaultBatchDivisor)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if len(cfg.Exclude) != len(DefaultExclusions) {
		t.Errorf("len(Exclude) = %d, want %d", len(cfg.Exclude), len(DefaultExclusions))
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "fanout")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
default_path: /home/user/work
exclude:
  - /tmp
  - /var/cache
execution:
  strategy: gated
  shape: io
  workers: 6
  max_concurrent: 4
  batch_size: 50
  batch_divisor: 2
  memory_per_worker_mb: 256
logging:
  level: debug
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultPath != "/home/user/work" {
		t.Errorf("DefaultPath = %q, want %q", cfg.DefaultPath, "/home/user/work")
	}

	if cfg.Execution.Strategy != "gated" {
		t.Errorf("Execution.Strategy = %q, want %q", cfg.Execution.Strategy, "gated")
	}

	if cfg.Execution.Shape != "io" {
		t.Errorf("Execution.Shape = %q, want %q", cfg.Execution.Shape, "io")
	}

	if cfg.Execution.Workers != 6 {
		t.Errorf("Execution.Workers = %d, want %d", cfg.Execution.Workers, 6)
	}

	if cfg.Execution.MaxConcurrent != 4 {
		t.Errorf("Execution.MaxConcurrent = %d, want %d", cfg.Execution.MaxConcurrent, 4)
	}

	if cfg.Execution.BatchSize != 50 {
		t.Errorf("Execution.BatchSize = %d, want %d", cfg.Execution.BatchSize, 50)
	}

	if cfg.Execution.BatchDivisor != 2 {
		t.Errorf("Execution.BatchDivisor = %d, want %d", cfg.Execution.BatchDivisor, 2)
	}

	if cfg.Execution.MemoryPerWorkerMB != 256 {
		t.Errorf("Execution.MemoryPerWorkerMB = %d, want %d", cfg.Execution.MemoryPerWorkerMB, 256)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	if len(cfg.Exclude) != 2 {
		t.Errorf("len(Exclude) = %d, want %d", len(cfg.Exclude), 2)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", "fanout")
	if err := os.MkdirAll(xdgConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create XDG config dir: %v", err)
	}

	configContent := `default_path: /data`
	configPath := filepath.Join(xdgConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultPath != "/data" {
		t.Errorf("DefaultPath = %q, want %q", cfg.DefaultPath, "/data")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("FANOUT_EXECUTION_WORKERS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Execution.Workers != 12 {
		t.Errorf("Execution.Workers = %d, want %d", cfg.Execution.Workers, 12)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := "/custom/config/fanout"
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("uses HOME/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := filepath.Join(tempDir, ".config", "fanout")
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	expectedDir := filepath.Join(tempDir, ".config", "fanout")
	info, err := os.Stat(expectedDir)
	if err != nil {
		t.Fatalf("os.Stat(%q) error = %v", expectedDir, err)
	}

	if !info.IsDir() {
		t.Errorf("%q is not a directory", expectedDir)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Run("creates default config file", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		configPath := filepath.Join(tempDir, ".config", "fanout", "config.yaml")
		data, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}

		if !strings.Contains(string(data), "strategy: pooled") {
			t.Error("default config file missing execution strategy")
		}
	})

	t.Run("does not overwrite existing config", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		configDir := filepath.Join(tempDir, ".config", "fanout")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}

		configPath := filepath.Join(configDir, "config.yaml")
		original := "default_path: /keep-me\n"
		if err := os.WriteFile(configPath, []byte(original), 0o644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}

		if string(data) != original {
			t.Error("WriteDefault() overwrote an existing config file")
		}
	})
}

func TestDefaultConstants(t *testing.T) {
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"DefaultPath", DefaultPath, "."},
		{"DefaultConfigDir", DefaultConfigDir, "~/.config/fanout"},
		{"DefaultShape", DefaultShape, "mixed"},
		{"DefaultStrategy", DefaultStrategy, "pooled"},
		{"DefaultBatchDivisor", DefaultBatchDivisor, 3},
		{"DefaultMemoryPerWorkerMB", DefaultMemoryPerWorkerMB, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"absolute path unchanged", "/usr/local", "/usr/local"},
		{"relative path unchanged", "work/items", "work/items"},
		{"tilde expands to home", "~/work", filepath.Join(tempDir, "work")},
		{"bare tilde expands", "~", tempDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
