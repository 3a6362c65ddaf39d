package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFiles: []string{}, Lookup: envMap(nil)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "geoidentify.yaml", `
api:
  base_url: http://file:9000
ui:
  locale: en
  theme: file-theme
model:
  top_n: 3
`)
	dotenv := writeFile(t, dir, ".env", "GEOIDENTIFY_THEME=dotenv-theme\nGEOIDENTIFY_TOP_N=4\nGEOIDENTIFY_WEB_ADDR=:9999\n")

	cfg, err := Load(LoadOptions{
		File:     file,
		EnvFiles: []string{dotenv, filepath.Join(dir, "missing.env")},
		Lookup: envMap(map[string]string{
			EnvTopN:        "5",
			EnvAPIBase:     "http://env:8000",
			EnvStripMarkup: "true",
		}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.API.BaseURL = "http://env:8000"
	want.API.StripMarkup = true
	want.Server.WebAddr = ":9999"
	want.UI.Locale = "en"
	want.UI.Theme = "dotenv-theme"
	want.Model.TopN = 5
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	file := writeFile(t, t.TempDir(), "c.yaml", "model:\n  knowledge_base: kb.yaml\n")
	cfg, err := Load(LoadOptions{EnvFiles: []string{}, Lookup: envMap(map[string]string{EnvConfigFile: file})})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model.KnowledgeBase != "kb.yaml" {
		t.Fatalf("expected knowledge base from file, got %q", cfg.Model.KnowledgeBase)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "unknown.yaml", "nope: 1\n")

	cases := map[string]LoadOptions{
		"bad top n":     {EnvFiles: []string{}, Lookup: envMap(map[string]string{EnvTopN: "many"})},
		"bad strip":     {EnvFiles: []string{}, Lookup: envMap(map[string]string{EnvStripMarkup: "maybe"})},
		"zero top n":    {EnvFiles: []string{}, Lookup: envMap(map[string]string{EnvTopN: "0"})},
		"bad base url":  {EnvFiles: []string{}, Lookup: envMap(map[string]string{EnvAPIBase: "localhost"})},
		"unknown field": {File: unknown, EnvFiles: []string{}, Lookup: envMap(nil)},
		"missing file":  {File: filepath.Join(dir, "none.yaml"), EnvFiles: []string{}, Lookup: envMap(nil)},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := Load(cases["zero top n"])
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
