package config_test

import (
	"os"
	"testing"

	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/pkg/database"
	"github.com/inkblot-io/inkblot/pkg/logging"
)

func chdirRepoRoot(t *testing.T) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldDir) })

	if err := os.Chdir("../../"); err != nil {
		t.Fatalf("Failed to change to repo root: %v", err)
	}
}

func TestLoad_BaseConfig(t *testing.T) {
	os.Unsetenv("SERVICE_ENV")
	chdirRepoRoot(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	chdirRepoRoot(t)

	testOverlay := `[server]
port = 9090
shutdown_timeout = "60s"

[processing]
render_dpi = 300
`

	if err := os.WriteFile("config.test.toml", []byte(testOverlay), 0644); err != nil {
		t.Fatalf("Failed to write test overlay: %v", err)
	}
	defer os.Remove("config.test.toml")

	os.Setenv("SERVICE_ENV", "test")
	defer os.Unsetenv("SERVICE_ENV")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() with overlay failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}

	if cfg.Server.ShutdownTimeout != "60s" {
		t.Errorf("Server.ShutdownTimeout = %q, want %q", cfg.Server.ShutdownTimeout, "60s")
	}

	if cfg.Processing.RenderDPI != 300 {
		t.Errorf("Processing.RenderDPI = %d, want %d", cfg.Processing.RenderDPI, 300)
	}
}

func TestLoad_MissingOverlayIgnored(t *testing.T) {
	chdirRepoRoot(t)

	os.Setenv("SERVICE_ENV", "nonexistent")
	defer os.Unsetenv("SERVICE_ENV")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestConfig_Finalize_AppliesDefaults(t *testing.T) {
	// database name and user have no defaults; everything else should
	// fill in from a zero value
	cfg := &config.Config{
		Database: database.Config{
			Name: "testdb",
			User: "testuser",
		},
	}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Server.Host == "" {
		t.Error("Server.Host not set to default")
	}

	if cfg.Server.Port == 0 {
		t.Error("Server.Port not set to default")
	}

	if cfg.Logging.Level == "" {
		t.Error("Logging.Level not set to default")
	}

	if cfg.Storage.BasePath == "" {
		t.Error("Storage.BasePath not set to default")
	}

	if cfg.Processing.ReferenceDPI == 0 {
		t.Error("Processing.ReferenceDPI not set to default")
	}

	if cfg.API.BasePath == "" {
		t.Error("API.BasePath not set to default")
	}
}

func TestConfig_Finalize_InvalidDuration(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			ShutdownTimeout: "invalid",
		},
	}

	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() succeeded with invalid duration, want error")
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &config.Config{
		Server: config.ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: logging.Config{
			Level: logging.LevelInfo,
		},
		Processing: config.ProcessingConfig{
			RenderDPI: 150,
		},
	}

	overlay := &config.Config{
		Server: config.ServerConfig{
			Port: 9090,
		},
		Logging: logging.Config{
			Level: logging.LevelDebug,
		},
	}

	base.Merge(overlay)

	if base.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q (should not change)", base.Server.Host, "0.0.0.0")
	}

	if base.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", base.Server.Port, 9090)
	}

	if base.Logging.Level != logging.LevelDebug {
		t.Errorf("Logging.Level = %q, want %q", base.Logging.Level, logging.LevelDebug)
	}

	if base.Processing.RenderDPI != 150 {
		t.Errorf("Processing.RenderDPI = %d, want %d (should not change)", base.Processing.RenderDPI, 150)
	}
}
