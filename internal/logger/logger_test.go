package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func initFile(t *testing.T, level string) string {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "cubeforge.log")
	cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
	if err := InitWithFileConfig(level, cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	t.Cleanup(func() {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
	})
	return logFile
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"ERROR"}, excluded: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warn", expected: []string{"ERROR", "WARN"}, excluded: []string{"INFO", "DEBUG"}},
		{level: "info", expected: []string{"ERROR", "WARN", "INFO"}, excluded: []string{"DEBUG"}},
		{level: "debug", expected: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
		{level: "bogus", expected: []string{"INFO"}, excluded: []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := initFile(t, tt.level)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, logFile)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamed(t *testing.T) {
	logFile := initFile(t, "info")

	Named("pipeline").Info("faces rendered", zap.Int("size", 256))

	content := readLog(t, logFile)
	if !strings.Contains(content, "pipeline") {
		t.Errorf("expected logger name in output, got %q", content)
	}
	if !strings.Contains(content, "faces rendered") {
		t.Errorf("expected message in output, got %q", content)
	}
}

func TestDefaultIsSilent(t *testing.T) {
	// must not panic before Init
	Info("dropped")
	Named("x").Warn("dropped")
	Sync()
}

func TestInitNeedsOutput(t *testing.T) {
	if err := InitWithFileConfig("info", FileConfig{}, false); err == nil {
		t.Error("expected error with no outputs")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/cubeforge.log")

	if cfg.Path != "/tmp/cubeforge.log" {
		t.Errorf("expected path /tmp/cubeforge.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation settings: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
