// Package config holds the settings of one comparison run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"yuvpsnr/internal/psnr"
	"yuvpsnr/internal/qmap"
	"yuvpsnr/internal/report"
	"yuvpsnr/internal/yuv"
)

// Default window of the absolute map, in dB.
const (
	DefaultAbsMinPSNR = 20.0
	DefaultAbsMaxPSNR = 50.0
)

// Config is the complete run configuration.
type Config struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Reference string `yaml:"reference"`
	Test      string `yaml:"test"`
	Mask      string `yaml:"mask"`             // optional ROI mask, one byte per macroblock
	Frames    int    `yaml:"frames"`           // 0 compares every whole frame
	Workers   int    `yaml:"workers"`          // frames measured concurrently
	EmptyPart string `yaml:"empty_partition"` // fail or skip

	Map         MapConfig    `yaml:"map"`          // bounds from percentiles unless set
	AbsoluteMap MapConfig    `yaml:"absolute_map"` // fixed bounds
	Report      ReportConfig `yaml:"report"`
}

// MapConfig names a quality map output and its PSNR window.
type MapConfig struct {
	Path        string `yaml:"path"`
	qmap.Bounds `yaml:",inline"`
}

// ReportConfig controls the summary output.
type ReportConfig struct {
	Format   string `yaml:"format"`    // text, json or msgpack
	Output   string `yaml:"output"`    // file path; empty or "-" for stdout
	PerFrame bool   `yaml:"per_frame"` // include one line per frame
}

// Load reads and parses a YAML configuration file. The result is not
// validated; callers apply overrides first and then call Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cfg and fills defaults. Every failure is a *yuv.ConfigError.
func Validate(cfg *Config) error {
	if _, err := yuv.NewGrid(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if cfg.Reference == "" {
		return yuv.Configf("reference", "path is required")
	}
	if cfg.Test == "" {
		return yuv.Configf("test", "path is required")
	}
	if cfg.Frames < 0 {
		return yuv.Configf("frames", "must not be negative, got %d", cfg.Frames)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if _, err := psnr.ParseEmptyPolicy(cfg.EmptyPart); err != nil {
		return &yuv.ConfigError{Field: "empty_partition", Reason: err.Error()}
	}
	if cfg.EmptyPart == "" {
		cfg.EmptyPart = psnr.FailEmpty.String()
	}

	if cfg.Report.Format == "" {
		cfg.Report.Format = report.Text
	}
	if !report.ValidFormat(cfg.Report.Format) {
		return yuv.Configf("report.format", "unknown format %q (must be text, json or msgpack)", cfg.Report.Format)
	}

	if err := validateBounds("map", cfg.Map.Bounds); err != nil {
		return err
	}
	if cfg.AbsoluteMap.Path != "" {
		if cfg.AbsoluteMap.Min == nil {
			v := DefaultAbsMinPSNR
			cfg.AbsoluteMap.Min = &v
		}
		if cfg.AbsoluteMap.Max == nil {
			v := DefaultAbsMaxPSNR
			cfg.AbsoluteMap.Max = &v
		}
		if err := validateBounds("absolute_map", cfg.AbsoluteMap.Bounds); err != nil {
			return err
		}
	}
	return nil
}

// EmptyPolicy returns the parsed empty partition policy. Call after Validate.
func (c *Config) EmptyPolicy() psnr.EmptyPolicy {
	p, _ := psnr.ParseEmptyPolicy(c.EmptyPart)
	return p
}

// validateBounds rejects explicit windows that cannot be quantized.
func validateBounds(field string, b qmap.Bounds) error {
	if b.Min != nil && b.Max != nil && !(*b.Max > *b.Min) {
		return yuv.Configf(field, "max_psnr %.4f must exceed min_psnr %.4f", *b.Max, *b.Min)
	}
	return nil
}
