package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for document processing configuration.
const (
	EnvProcessingReferenceDPI = "PROCESSING_REFERENCE_DPI"
	EnvProcessingNativeDPI    = "PROCESSING_NATIVE_DPI"
	EnvProcessingBorderWidth  = "PROCESSING_BORDER_WIDTH"
	EnvProcessingRenderDPI    = "PROCESSING_RENDER_DPI"
	EnvProcessingWorkers      = "PROCESSING_WORKERS"
)

// ProcessingConfig contains document processing parameters. ReferenceDPI is
// the coordinate space client rectangles are expressed in; NativeDPI is the
// page point space. RenderDPI is the default rasterization resolution, and
// Workers sizes the render pool (0 uses the host CPU count).
type ProcessingConfig struct {
	ReferenceDPI int `toml:"reference_dpi"`
	NativeDPI    int `toml:"native_dpi"`
	BorderWidth  int `toml:"border_width"`
	RenderDPI    int `toml:"render_dpi"`
	Workers      int `toml:"workers"`
}

// Finalize applies defaults, loads environment overrides, and validates the
// processing configuration.
func (c *ProcessingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ProcessingConfig) Merge(overlay *ProcessingConfig) {
	if overlay.ReferenceDPI != 0 {
		c.ReferenceDPI = overlay.ReferenceDPI
	}
	if overlay.NativeDPI != 0 {
		c.NativeDPI = overlay.NativeDPI
	}
	if overlay.BorderWidth != 0 {
		c.BorderWidth = overlay.BorderWidth
	}
	if overlay.RenderDPI != 0 {
		c.RenderDPI = overlay.RenderDPI
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *ProcessingConfig) loadDefaults() {
	if c.ReferenceDPI == 0 {
		c.ReferenceDPI = 96
	}
	if c.NativeDPI == 0 {
		c.NativeDPI = 72
	}
	if c.BorderWidth == 0 {
		c.BorderWidth = 10
	}
	if c.RenderDPI == 0 {
		c.RenderDPI = 150
	}
}

func (c *ProcessingConfig) loadEnv() {
	loadInt := func(name string, target *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}

	loadInt(EnvProcessingReferenceDPI, &c.ReferenceDPI)
	loadInt(EnvProcessingNativeDPI, &c.NativeDPI)
	loadInt(EnvProcessingBorderWidth, &c.BorderWidth)
	loadInt(EnvProcessingRenderDPI, &c.RenderDPI)
	loadInt(EnvProcessingWorkers, &c.Workers)
}

func (c *ProcessingConfig) validate() error {
	if c.ReferenceDPI < 1 {
		return fmt.Errorf("reference_dpi must be positive")
	}
	if c.NativeDPI < 1 {
		return fmt.Errorf("native_dpi must be positive")
	}
	if c.BorderWidth < 0 {
		return fmt.Errorf("border_width cannot be negative")
	}
	if c.RenderDPI < 1 {
		return fmt.Errorf("render_dpi must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	return nil
}
