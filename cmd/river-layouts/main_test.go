package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	got := map[string]bool{}
	for _, c := range root.Commands() {
		got[c.Name()] = true
	}
	for _, want := range []string{"carousel", "uniform-grid", "status", "preview", "mcp"} {
		if !got[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	if levelFor("debug") != log.DebugLevel {
		t.Errorf("debug: got %v", levelFor("debug"))
	}
	if levelFor("warn") != log.WarnLevel {
		t.Errorf("warn: got %v", levelFor("warn"))
	}
	if levelFor("error") != log.ErrorLevel {
		t.Errorf("error: got %v", levelFor("error"))
	}
	if levelFor("info") != log.InfoLevel {
		t.Errorf("info: got %v", levelFor("info"))
	}
	if levelFor("") != log.InfoLevel {
		t.Errorf("empty: got %v", levelFor(""))
	}
}

func TestPreviewRejectsNegativeViews(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"preview", "--views=-1"})

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "--views") {
		t.Fatalf("expected --views error, got %v", err)
	}
}

func TestInvalidConfigFailsBeforeCommandRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("carousel:\n  main_ratio: 2.0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"preview", "--config", path})

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "main_ratio") {
		t.Fatalf("expected main_ratio validation error, got %v", err)
	}
}
