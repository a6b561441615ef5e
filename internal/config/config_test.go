package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Filler() != 'X' {
		t.Fatalf("unexpected filler: %q", cfg.Filler())
	}
	if cfg.LockTimeout() != 15*time.Second {
		t.Fatalf("unexpected lock timeout: %v", cfg.LockTimeout())
	}
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildingid.toml")
	payload := "[properties]\nid = \"code\"\n\n[lock]\ntimeout_seconds = 2\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Properties.ID != "code" {
		t.Fatalf("unexpected id property: %q", cfg.Properties.ID)
	}
	if cfg.Properties.Name != "name" {
		t.Fatalf("name property should keep its default, got %q", cfg.Properties.Name)
	}
	if cfg.Output.Indent != "  " {
		t.Fatalf("indent should keep its default, got %q", cfg.Output.Indent)
	}
	if cfg.LockTimeout() != 2*time.Second {
		t.Fatalf("unexpected lock timeout: %v", cfg.LockTimeout())
	}
}

func TestLoadIndentAndReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildingid.toml")
	payload := "[codes]\nfiller = \"Z\"\n\n[output]\nindent = \"\\t\"\nreport = \"report.yaml\"\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Indent != "\t" || cfg.Output.Report != "report.yaml" || cfg.Filler() != 'Z' {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateIndent(t *testing.T) {
	for _, indent := range []string{"", "  ", "\t", " \t "} {
		cfg := Default()
		cfg.Output.Indent = indent
		if err := cfg.Validate(); err != nil {
			t.Fatalf("indent %q should be valid: %v", indent, err)
		}
	}
	for _, indent := range []string{"ab", " x", "\n", "--"} {
		cfg := Default()
		cfg.Output.Indent = indent
		if err := cfg.Validate(); err == nil {
			t.Fatalf("indent %q should be rejected", indent)
		}
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"long filler", "[codes]\nfiller = \"XY\"\n"},
		{"lowercase filler", "[codes]\nfiller = \"x\"\n"},
		{"empty id", "[properties]\nid = \"\"\n"},
		{"same properties", "[properties]\nname = \"label\"\nid = \"label\"\n"},
		{"negative timeout", "[lock]\ntimeout_seconds = -1\n"},
		{"wide indent", "[output]\nindent = \"          \"\n"},
		{"non-blank indent", "[output]\nindent = \"ab\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "buildingid.toml")
			if err := os.WriteFile(path, []byte(tt.payload), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid config") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
