package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_defaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Manifests, DefaultManifests) {
		t.Errorf("Manifests: got %v, want defaults", cfg.Manifests)
	}
	if cfg.Reset.Placeholder != "0x" || cfg.Reset.Table != "addresses" {
		t.Errorf("Reset: got %+v", cfg.Reset)
	}
	if cfg.Publish.Readme != "README.md" {
		t.Errorf("Readme: got %q, want %q", cfg.Publish.Readme, "README.md")
	}
	if cfg.Publish.Heading != "## Contracts" {
		t.Errorf("Heading: got %q", cfg.Publish.Heading)
	}
	if cfg.Publish.ExplorerURL != "https://explorer.sui.io/object/{id}" {
		t.Errorf("ExplorerURL: got %q", cfg.Publish.ExplorerURL)
	}
	if cfg.Strict {
		t.Error("Strict: got true, want false")
	}
	if cfg.File != "" {
		t.Errorf("File: got %q, want empty", cfg.File)
	}
}

func TestLoad_parsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movectl.yaml")
	writeFile(t, path, strings.TrimSpace(`
root: /repo
strict: true
manifests:
  - contracts/kiosk/Move.toml
  - contracts/launchpad/Move.toml
reset:
  placeholder: "0x0"
publish:
  readme: docs/README.md
  label: "Mainnet contracts:"
log:
  format: json
`))

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Root != "/repo" {
		t.Errorf("Root: got %q", cfg.Root)
	}
	if !cfg.Strict {
		t.Error("Strict: got false, want true")
	}
	want := []string{"contracts/kiosk/Move.toml", "contracts/launchpad/Move.toml"}
	if !reflect.DeepEqual(cfg.Manifests, want) {
		t.Errorf("Manifests: got %v, want %v", cfg.Manifests, want)
	}
	if cfg.Reset.Placeholder != "0x0" {
		t.Errorf("Placeholder: got %q", cfg.Reset.Placeholder)
	}
	if cfg.Reset.Table != "addresses" {
		t.Errorf("Table default lost: got %q", cfg.Reset.Table)
	}
	if cfg.Publish.Readme != "docs/README.md" || cfg.Publish.Label != "Mainnet contracts:" {
		t.Errorf("Publish: got %+v", cfg.Publish)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q", cfg.Log.Format)
	}
	if cfg.File != path {
		t.Errorf("File: got %q, want %q", cfg.File, path)
	}
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("MOVECTL_STRICT", "true")
	t.Setenv("MOVECTL_PUBLISH_README", "docs/CONTRACTS.md")
	t.Setenv("MOVECTL_MANIFESTS", "a/Move.toml b/Move.toml")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Strict {
		t.Error("Strict: got false, want true")
	}
	if cfg.Publish.Readme != "docs/CONTRACTS.md" {
		t.Errorf("Readme: got %q", cfg.Publish.Readme)
	}
	if want := []string{"a/Move.toml", "b/Move.toml"}; !reflect.DeepEqual(cfg.Manifests, want) {
		t.Errorf("Manifests: got %v, want %v", cfg.Manifests, want)
	}
}

func TestLoad_missingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Manifests: []string{"Move.toml"},
			Reset:     ResetConfig{Table: "addresses", Placeholder: "0x"},
			Publish: PublishConfig{
				Readme:      "README.md",
				Heading:     "## Contracts",
				Label:       "Protocol contracts:",
				ExplorerURL: "https://explorer.sui.io/object/{id}",
			},
			Log: LogConfig{Level: "info", Format: "console"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"no manifests":       func(c *Config) { c.Manifests = nil },
		"empty placeholder":  func(c *Config) { c.Reset.Placeholder = " " },
		"empty table":        func(c *Config) { c.Reset.Table = "" },
		"empty readme":       func(c *Config) { c.Publish.Readme = "" },
		"heading not level2": func(c *Config) { c.Publish.Heading = "Contracts" },
		"empty explorer":     func(c *Config) { c.Publish.ExplorerURL = "" },
		"bad log format":     func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExpandManifests(t *testing.T) {
	root := t.TempDir()
	for _, pkg := range []string{"utils", "kiosk", "launchpad"} {
		writeFile(t, filepath.Join(root, "contracts", pkg, "Move.toml"), "[package]\n")
	}

	got, err := ExpandManifests(root, []string{
		"contracts/utils/Move.toml",
		"contracts/**/Move.toml",
		"contracts/missing/Move.toml",
	})
	if err != nil {
		t.Fatalf("ExpandManifests returned error: %v", err)
	}
	want := []string{
		filepath.Join(root, "contracts", "utils", "Move.toml"),
		filepath.Join(root, "contracts", "kiosk", "Move.toml"),
		filepath.Join(root, "contracts", "launchpad", "Move.toml"),
		filepath.Join(root, "contracts", "missing", "Move.toml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandManifests_noMatches(t *testing.T) {
	_, err := ExpandManifests(t.TempDir(), []string{"contracts/*/Move.toml"})
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("got %v, want ErrNoMatches", err)
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/repo", "contracts/kiosk/Move.toml"); got != filepath.Join("/repo", "contracts", "kiosk", "Move.toml") {
		t.Errorf("got %q", got)
	}
	if got := Resolve("/repo", "/abs/Move.toml"); got != filepath.Clean("/abs/Move.toml") {
		t.Errorf("got %q", got)
	}
}
