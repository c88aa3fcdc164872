package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidYml(t *testing.T) {
	tmpDir := t.TempDir()

	content := `version: 1
walk:
  include:
    - "**/*.py"
  exclude:
    - "**/vendor/**"
  max_depth: 5
  respect_gitignore: false
rewrite:
  backup_ext: .bak
  fail_on_bailout: true
venv_root: .venv
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".trimportrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if len(cfg.Walk.Include) != 1 || cfg.Walk.Include[0] != "**/*.py" {
		t.Errorf("Walk.Include = %v, want [**/*.py]", cfg.Walk.Include)
	}
	if cfg.Walk.MaxDepth != 5 {
		t.Errorf("Walk.MaxDepth = %d, want 5", cfg.Walk.MaxDepth)
	}
	if cfg.Walk.RespectGitignoreOrDefault() {
		t.Error("expected respect_gitignore: false to be honored")
	}
	if cfg.Rewrite.BackupExt != ".bak" {
		t.Errorf("Rewrite.BackupExt = %q, want .bak", cfg.Rewrite.BackupExt)
	}
	if cfg.VenvRoot != ".venv" {
		t.Errorf("VenvRoot = %q, want .venv", cfg.VenvRoot)
	}
}

func TestLoadMissingFileReturnsNilConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(tmpDir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for missing file, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	content := "version: 1\nnot_a_real_field: true\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".trimportrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir, ""); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	content := "version: 99\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".trimportrc.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	content := "version: 1\nout_dir: build/slim\n"
	customPath := filepath.Join(tmpDir, "custom-config.yml")
	if err := os.WriteFile(customPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir, customPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutDir != "build/slim" {
		t.Errorf("OutDir = %q, want build/slim", cfg.OutDir)
	}
}

func TestLoadYamlExtension(t *testing.T) {
	tmpDir := t.TempDir()
	content := "version: 1\nreport:\n  json: true\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".trimportrc.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config for .trimportrc.yaml")
	}
	if !cfg.Report.JSON {
		t.Error("expected report.json true")
	}
}

func TestValidateRejectsNegativeMaxDepth(t *testing.T) {
	cfg := &ProjectConfig{Version: 1, Walk: walkOverrides{MaxDepth: -1}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative max_depth")
	}
}
