package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"PivotTolerance", cfg.Solver.PivotTolerance, 1e-12},
		{"LogLevel", cfg.Log.Level, "info"},
		{"DebugEnabled", cfg.Debug.Enabled, false},
		{"HistoryDB", cfg.Debug.HistoryDB, ""},
		{"Debounce", cfg.Watch.Debounce, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"pivot_tolerance", "ELECTRIC_SOLVER_PIVOT_TOLERANCE", "1e-9", func(c Config) any { return c.Solver.PivotTolerance }, 1e-9},
		{"log_level", "ELECTRIC_LOG_LEVEL", "debug", func(c Config) any { return c.Log.Level }, "debug"},
		{"debug_enabled", "ELECTRIC_DEBUG_ENABLED", "true", func(c Config) any { return c.Debug.Enabled }, true},
		{"history_db", "ELECTRIC_DEBUG_HISTORY_DB", "/tmp/h.db", func(c Config) any { return c.Debug.HistoryDB }, "/tmp/h.db"},
		{"debounce", "ELECTRIC_WATCH_DEBOUNCE", "250ms", func(c Config) any { return c.Watch.Debounce }, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv(tt.envKey, tt.envVal)
			if err := Init(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
				t.Fatal("Init() with a missing explicit file should fail")
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInit_ConfigFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "electric.yaml")
	data := "solver:\n  pivot_tolerance: 1e-6\nlog:\n  level: warn\nwatch:\n  debounce: 1s\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Solver.PivotTolerance != 1e-6 {
		t.Errorf("PivotTolerance = %v, want 1e-6", cfg.Solver.PivotTolerance)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
}

func TestInit_NoDefaultFile(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\") without a config file should succeed: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"solver.pivot_tolerance", 0.0},
		{"solver.pivot_tolerance", -1.0},
		{"log.level", "loud"},
		{"watch.debounce", -time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%v should fail", tt.key, tt.val)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
