package config_test

import (
	"testing"

	"github.com/agentworkbench/workbench/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false by default")
	}
	if cfg.Telemetry.ServiceName != "workbench-control-plane" {
		t.Errorf("ServiceName = %q, want workbench-control-plane", cfg.Telemetry.ServiceName)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORKBENCH_PORT", "9191")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := config.Load()
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true")
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("WORKBENCH_PORT", "not-a-port")

	cfg := config.Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Port)
	}
}
