package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MainLocation selects which side of the output holds the main area.
type MainLocation string

const (
	MainLocationLeft  MainLocation = "left"
	MainLocationRight MainLocation = "right"
)

// ColumnWidth supports either:
//
//	column_width: 600
//
// or:
//
//	column_width: auto
//
// Auto sizes each secondary view to the full carousel viewport width.
type ColumnWidth struct {
	Auto   bool
	Pixels float64
}

func (w *ColumnWidth) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*w = ColumnWidth{Auto: true}
		return nil
	case yaml.ScalarNode:
		switch value.Tag {
		case "!!str":
			if value.Value != "auto" {
				return fmt.Errorf("column_width must be a positive number or \"auto\"")
			}
			*w = ColumnWidth{Auto: true}
			return nil
		case "!!int", "!!float":
			px, err := strconv.ParseFloat(value.Value, 64)
			if err != nil {
				return fmt.Errorf("column_width must be a positive number or \"auto\"")
			}
			*w = ColumnWidth{Pixels: px}
			return nil
		default:
			return fmt.Errorf("column_width must be a positive number or \"auto\"")
		}
	default:
		return fmt.Errorf("column_width must be a positive number or \"auto\"")
	}
}

func (w ColumnWidth) MarshalYAML() (any, error) {
	if w.Auto {
		return "auto", nil
	}
	return w.Pixels, nil
}

func (w ColumnWidth) String() string {
	if w.Auto {
		return "auto"
	}
	return strconv.FormatFloat(w.Pixels, 'f', -1, 64)
}

// ParseColumnWidth parses a flag or tool argument: "auto" or a positive
// pixel value.
func ParseColumnWidth(s string) (ColumnWidth, error) {
	s = strings.TrimSpace(s)
	if s == "auto" {
		return ColumnWidth{Auto: true}, nil
	}
	pixels, err := strconv.ParseFloat(s, 64)
	if err != nil || pixels <= 0 {
		return ColumnWidth{}, fmt.Errorf("column_width must be \"auto\" or a positive pixel value, got %q", s)
	}
	return ColumnWidth{Pixels: pixels}, nil
}

// Carousel holds the carousel layout defaults. They seed each output's
// state on first demand; commands mutate the per-output copy only.
type Carousel struct {
	MainRatio    float64      `yaml:"main_ratio"`
	MainCount    int          `yaml:"main_count"`
	ColumnWidth  ColumnWidth  `yaml:"column_width"`
	Gap          int          `yaml:"gap"`
	MainLocation MainLocation `yaml:"main_location"`
}

// UniformGrid holds the uniform-grid layout parameters.
type UniformGrid struct {
	TargetAspect float64 `yaml:"target_aspect"` // width/height of the ideal cell
	Gap          int     `yaml:"gap"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel    string      `yaml:"log_level"`
	Carousel    Carousel    `yaml:"carousel"`
	UniformGrid UniformGrid `yaml:"uniform_grid"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Carousel: Carousel{
			MainRatio:    0.5,
			MainCount:    1,
			ColumnWidth:  ColumnWidth{Auto: true},
			Gap:          6,
			MainLocation: MainLocationLeft,
		},
		UniformGrid: UniformGrid{
			TargetAspect: 16.0 / 9.0,
			Gap:          6,
		},
	}
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.Carousel.MainRatio < 0.05 || c.Carousel.MainRatio > 0.95 {
		return &ValidationError{Path: "carousel.main_ratio", Err: fmt.Errorf("main_ratio must be between 0.05 and 0.95")}
	}
	if c.Carousel.MainCount < 1 {
		return &ValidationError{Path: "carousel.main_count", Err: fmt.Errorf("main_count must be >= 1")}
	}
	if !c.Carousel.ColumnWidth.Auto && c.Carousel.ColumnWidth.Pixels <= 0 {
		return &ValidationError{Path: "carousel.column_width", Err: fmt.Errorf("column_width must be positive or \"auto\"")}
	}
	if c.Carousel.Gap < 0 {
		return &ValidationError{Path: "carousel.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	switch c.Carousel.MainLocation {
	case MainLocationLeft, MainLocationRight:
	default:
		return &ValidationError{Path: "carousel.main_location", Err: fmt.Errorf("main_location must be left or right")}
	}
	if c.UniformGrid.TargetAspect <= 0 {
		return &ValidationError{Path: "uniform_grid.target_aspect", Err: fmt.Errorf("target_aspect must be > 0")}
	}
	if c.UniformGrid.Gap < 0 {
		return &ValidationError{Path: "uniform_grid.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	return nil
}
