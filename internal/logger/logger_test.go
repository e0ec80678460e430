package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+"test.log")
			cfg := FileConfig{
				Path:       logFile,
				MaxSizeMB:  10,
				MaxBackups: 1,
				MaxAgeDays: 1,
			}
			var console bytes.Buffer
			if err := InitWithFileConfig(tt.level, cfg, &console); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}
			Debug("debug message")
			Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			for name, out := range map[string]string{"file": string(content), "console": console.String()} {
				for _, exp := range tt.expected {
					if !strings.Contains(out, exp) {
						t.Errorf("expected %s in %s output", exp, name)
					}
				}
				for _, exc := range tt.excluded {
					if strings.Contains(out, exc) {
						t.Errorf("unexpected %s in %s output for level %q", exc, name, tt.level)
					}
				}
			}
		})
	}
}

func TestBadLevel(t *testing.T) {
	if _, err := New("loud", FileConfig{}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := InitWithFileConfig("loud", FileConfig{}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNoOutputs(t *testing.T) {
	l, err := New("debug", FileConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("discarded")
	if l.Core().Enabled(0) {
		t.Error("logger without outputs should discard everything")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/nameplate.log")
	if cfg.Path != "/tmp/nameplate.log" {
		t.Errorf("expected path /tmp/nameplate.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 30 {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
