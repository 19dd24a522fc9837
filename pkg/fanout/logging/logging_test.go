package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jamesainslie/fanout/pkg/fanout/logging"
)

// TestInit tests the Init function with various configurations.
// Note: This test cannot run in parallel with other tests that use global state.
func TestInit(t *testing.T) {
	// Create temp dirs before subtests to avoid t.TempDir() in table
	validDir := t.TempDir()
	debugDir := t.TempDir()
	componentsDir := t.TempDir()
	invalidDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config with defaults",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(validDir, "test.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with debug level",
			cfg: logging.Config{
				Level: "debug",
				Path:  filepath.Join(debugDir, "debug.log"),
			},
			wantErr: false,
		},
		{
			name: "valid config with component overrides",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{
					"executor":  "debug",
					"telemetry": "warn",
				},
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			cfg: logging.Config{
				Level: "invalid",
				Path:  filepath.Join(invalidDir, "invalid.log"),
			},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(invalidDir, "badcomp.log"),
				Components: map[string]string{
					"executor": "loud",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Note: No t.Parallel() - these tests modify global state

			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil {
				if closeErr := logging.Close(); closeErr != nil {
					t.Errorf("Close() error = %v", closeErr)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	cfg := logging.Config{
		Level: "info",
		Path:  filepath.Join(tempDir, "test.log"),
		Components: map[string]string{
			"executor":  "debug",
			"telemetry": "error",
		},
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	tests := []struct {
		name      string
		component string
	}{
		{"get executor logger", "executor"},
		{"get telemetry logger", "telemetry"},
		{"get tui logger", "tui"},
		{"get default logger", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.Get(tt.component)
			if logger == nil {
				t.Error("Get() returned nil")
			}
		})
	}
}

func TestGetBeforeInitIsSilent(t *testing.T) {
	// No t.Parallel() - uses global state

	// Ensure a clean slate
	_ = logging.Close()

	logger := logging.Get("early")
	if logger == nil {
		t.Fatal("Get() returned nil before Init")
	}

	// Must not panic
	logger.Info("discarded message")
	logger.Error("also discarded")
}

func TestLoggerWritesToFile(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "write.log")

	cfg := logging.Config{
		Level: "debug",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test")
	logger.Info("test message", "key", "value")
	logger.Debug("debug message")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file does not contain expected message, got: %s", content)
	}
}

func TestLogLevels(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "levels.log")

	cfg := logging.Config{
		Level: "warn",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test")
	logger.Debug("debug should not appear")
	logger.Info("info should not appear")
	logger.Warn("warn should appear")
	logger.Error("error should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	logContent := string(content)

	if strings.Contains(logContent, "debug should not appear") {
		t.Error("debug message appeared despite warn level")
	}
	if strings.Contains(logContent, "info should not appear") {
		t.Error("info message appeared despite warn level")
	}
	if !strings.Contains(logContent, "warn should appear") {
		t.Error("warn message missing")
	}
	if !strings.Contains(logContent, "error should appear") {
		t.Error("error message missing")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "components.log")

	cfg := logging.Config{
		Level: "error",
		Path:  logPath,
		Components: map[string]string{
			"chatty": "debug",
		},
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("chatty").Debug("chatty debug visible")
	logging.Get("other").Debug("other debug hidden")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	logContent := string(content)
	if !strings.Contains(logContent, "chatty debug visible") {
		t.Error("component override did not lower the level")
	}
	if strings.Contains(logContent, "other debug hidden") {
		t.Error("default level did not suppress debug")
	}
}

func TestWith(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "with.log")

	cfg := logging.Config{
		Level: "info",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test").With("run", "abc123")
	logger.Info("contextual message")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "abc123") {
		t.Errorf("log file missing With() context, got: %s", content)
	}
}

func TestConcurrentLogging(t *testing.T) {
	// No t.Parallel() - uses global state

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "concurrent.log")

	cfg := logging.Config{
		Level: "info",
		Path:  logPath,
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger := logging.Get("worker")
			for j := 0; j < 20; j++ {
				logger.Info("concurrent write", "goroutine", n, "iteration", j)
			}
		}(i)
	}
	wg.Wait()

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "concurrent write") {
		t.Error("log file missing concurrent messages")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"info", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"ERROR", logging.LevelError, false},
		{"trace", logging.LevelInfo, true},
		{"", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  string
	}{
		{logging.LevelDebug, "debug"},
		{logging.LevelInfo, "info"},
		{logging.LevelWarn, "warn"},
		{logging.LevelError, "error"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
