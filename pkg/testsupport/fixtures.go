package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
)

// SampleFeaturesJSON is a /features payload with two categories, kept in
// backend order.
const SampleFeaturesJSON = `{
  "categories": {
    "Geografia": [
      {"id": "coast", "label": "Litoral"},
      {"id": "mountains", "label": "Montanhas"}
    ],
    "Cultura": [
      {"id": "samba", "label": "Samba"}
    ]
  }
}`

// SamplePredictionJSON is a /predict payload matching SampleFeaturesJSON.
const SamplePredictionJSON = `{
  "top_countries": [
    {"country": "Brasil", "probability": 0.6, "score": 1.5},
    {"country": "Chile", "probability": 0.4, "score": 1.0}
  ],
  "top_country_explanation": {"coast": 0.5, "samba": 1.0}
}`

// SampleTaxonomy decodes SampleFeaturesJSON.
func SampleTaxonomy(t testing.TB) catalog.Taxonomy {
	t.Helper()
	taxonomy, err := catalog.DecodeTaxonomy([]byte(SampleFeaturesJSON))
	if err != nil {
		t.Fatalf("decode sample taxonomy: %v", err)
	}
	return taxonomy
}

// SamplePrediction decodes SamplePredictionJSON.
func SamplePrediction(t testing.TB) catalog.Prediction {
	t.Helper()
	prediction, err := catalog.DecodePrediction([]byte(SamplePredictionJSON))
	if err != nil {
		t.Fatalf("decode sample prediction: %v", err)
	}
	return prediction
}

// LoadTaxonomy reads a /features fixture from disk.
func LoadTaxonomy(path string) (catalog.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Taxonomy{}, fmt.Errorf("testsupport: read taxonomy: %w", err)
	}
	return catalog.DecodeTaxonomy(data)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
