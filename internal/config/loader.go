package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RawConfig mirrors Config with pointer fields so a file can override
// only the keys it mentions; missing keys keep their defaults.
type RawConfig struct {
	LogLevel    *string         `yaml:"log_level"`
	Carousel    *RawCarousel    `yaml:"carousel"`
	UniformGrid *RawUniformGrid `yaml:"uniform_grid"`
}

type RawCarousel struct {
	MainRatio    *float64      `yaml:"main_ratio"`
	MainCount    *int          `yaml:"main_count"`
	ColumnWidth  *ColumnWidth  `yaml:"column_width"`
	Gap          *int          `yaml:"gap"`
	MainLocation *MainLocation `yaml:"main_location"`
}

type RawUniformGrid struct {
	TargetAspect *float64 `yaml:"target_aspect"`
	Gap          *int     `yaml:"gap"`
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "river-layouts", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing
// file is not an error; defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads, merges, and validates the configuration at path.
func LoadFromPath(path string) (*Config, error) {
	raw := RawConfig{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	default:
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildEffectiveConfig overlays raw file values on the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Carousel != nil {
		if raw.Carousel.MainRatio != nil {
			cfg.Carousel.MainRatio = *raw.Carousel.MainRatio
		}
		if raw.Carousel.MainCount != nil {
			cfg.Carousel.MainCount = *raw.Carousel.MainCount
		}
		if raw.Carousel.ColumnWidth != nil {
			cfg.Carousel.ColumnWidth = *raw.Carousel.ColumnWidth
		}
		if raw.Carousel.Gap != nil {
			cfg.Carousel.Gap = *raw.Carousel.Gap
		}
		if raw.Carousel.MainLocation != nil {
			cfg.Carousel.MainLocation = *raw.Carousel.MainLocation
		}
	}
	if raw.UniformGrid != nil {
		if raw.UniformGrid.TargetAspect != nil {
			cfg.UniformGrid.TargetAspect = *raw.UniformGrid.TargetAspect
		}
		if raw.UniformGrid.Gap != nil {
			cfg.UniformGrid.Gap = *raw.UniformGrid.Gap
		}
	}

	return cfg
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	return nil
}
