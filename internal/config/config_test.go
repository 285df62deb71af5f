package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if !cfg.Carousel.ColumnWidth.Auto {
		t.Fatalf("expected default column_width to be auto")
	}
	if cfg.Carousel.MainLocation != MainLocationLeft {
		t.Fatalf("expected default main_location left, got %q", cfg.Carousel.MainLocation)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Carousel.MainRatio != 0.5 {
		t.Fatalf("expected default main_ratio 0.5, got %v", cfg.Carousel.MainRatio)
	}
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"carousel:",
		"  main_ratio: 0.6",
		"  column_width: 800",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Carousel.MainRatio != 0.6 {
		t.Fatalf("expected main_ratio 0.6, got %v", cfg.Carousel.MainRatio)
	}
	if cfg.Carousel.ColumnWidth.Auto || cfg.Carousel.ColumnWidth.Pixels != 800 {
		t.Fatalf("expected column_width 800, got %v", cfg.Carousel.ColumnWidth)
	}
	// Untouched keys keep their defaults.
	if cfg.Carousel.Gap != 6 {
		t.Fatalf("expected default gap 6, got %d", cfg.Carousel.Gap)
	}
	if cfg.UniformGrid.TargetAspect != 16.0/9.0 {
		t.Fatalf("expected default target_aspect, got %v", cfg.UniformGrid.TargetAspect)
	}
}

func TestLoadFromPath_ColumnWidthAuto(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("carousel:\n  column_width: auto\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Carousel.ColumnWidth.Auto {
		t.Fatalf("expected column_width auto, got %v", cfg.Carousel.ColumnWidth)
	}
}

func TestLoadFromPath_ColumnWidthRejectsOtherStrings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("carousel:\n  column_width: wide\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for column_width: wide")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseColumnWidth(t *testing.T) {
	cw, err := ParseColumnWidth("auto")
	if err != nil || !cw.Auto {
		t.Fatalf("expected auto, got %v, %v", cw, err)
	}

	cw, err = ParseColumnWidth(" 640 ")
	if err != nil || cw.Auto || cw.Pixels != 640 {
		t.Fatalf("expected 640, got %v, %v", cw, err)
	}

	for _, bad := range []string{"", "wide", "-1", "0"} {
		if _, err := ParseColumnWidth(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Carousel.MainRatio = 0.04
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error for main_ratio below 0.05")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "carousel.main_ratio" {
		t.Fatalf("expected path carousel.main_ratio, got %q", verr.Path)
	}

	cfg = DefaultConfig()
	cfg.Carousel.MainCount = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for main_count 0")
	}

	cfg = DefaultConfig()
	cfg.Carousel.ColumnWidth = ColumnWidth{Pixels: -10}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for negative column_width")
	}

	cfg = DefaultConfig()
	cfg.Carousel.MainLocation = "top"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for main_location top")
	}

	cfg = DefaultConfig()
	cfg.UniformGrid.TargetAspect = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for target_aspect 0")
	}
}
