package catalog_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
)

func TestDecodeTaxonomy_PreservesCategoryOrder(t *testing.T) {
	payload := []byte(`{"categories":{
		"Geo":[{"id":"f1","label":"Coastal"},{"id":"f2","label":"Mountains"}],
		"Climate":[{"id":"f3","label":"Tropical"}],
		"Alphabet":[]
	}}`)

	taxonomy, err := catalog.DecodeTaxonomy(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := catalog.Taxonomy{Categories: []catalog.Category{
		{Name: "Geo", Features: []catalog.Feature{{ID: "f1", Label: "Coastal"}, {ID: "f2", Label: "Mountains"}}},
		{Name: "Climate", Features: []catalog.Feature{{ID: "f3", Label: "Tropical"}}},
		{Name: "Alphabet", Features: []catalog.Feature{}},
	}}
	if diff := cmp.Diff(want, taxonomy); diff != "" {
		t.Fatalf("taxonomy mismatch (-want +got):\n%s", diff)
	}
	if got := taxonomy.FeatureCount(); got != 3 {
		t.Fatalf("feature count: want 3, got %d", got)
	}
	if diff := cmp.Diff([]string{"f1", "f2", "f3"}, taxonomy.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTaxonomy_RejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `{"categories":`,
		"missing categories": `{"other":{}}`,
		"categories array":   `{"categories":[]}`,
		"category object":    `{"categories":{"Geo":{}}}`,
		"feature not object": `{"categories":{"Geo":["f1"]}}`,
		"missing id":         `{"categories":{"Geo":[{"label":"Coastal"}]}}`,
		"numeric label":      `{"categories":{"Geo":[{"id":"f1","label":3}]}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.DecodeTaxonomy([]byte(payload))
			if !errors.Is(err, catalog.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestDecodeTaxonomy_RejectsDuplicateIDsAcrossCategories(t *testing.T) {
	payload := []byte(`{"categories":{"Geo":[{"id":"f1","label":"Coastal"}],"Climate":[{"id":"f1","label":"Warm"}]}}`)

	_, err := catalog.DecodeTaxonomy(payload)
	if !errors.Is(err, catalog.ErrDuplicateFeature) {
		t.Fatalf("expected ErrDuplicateFeature, got %v", err)
	}
	if !errors.Is(err, catalog.ErrMalformedResponse) {
		t.Fatalf("expected duplicate to also be malformed, got %v", err)
	}
}

func TestDecodePrediction_PreservesOrder(t *testing.T) {
	payload := []byte(`{
		"top_countries":[
			{"country":"Chile","probability":0.42,"score":1.236},
			{"country":"Peru","probability":0.58,"score":1.7}
		],
		"top_country_explanation":{"f9":-0.25,"f1":0.5}
	}`)

	prediction, err := catalog.DecodePrediction(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := catalog.Prediction{
		TopCountries: []catalog.CountryScore{
			{Country: "Chile", Probability: 0.42, Score: 1.236},
			{Country: "Peru", Probability: 0.58, Score: 1.7},
		},
		Explanation: catalog.Explanation{
			{FeatureID: "f9", Weight: -0.25},
			{FeatureID: "f1", Weight: 0.5},
		},
	}
	if diff := cmp.Diff(want, prediction); diff != "" {
		t.Fatalf("prediction mismatch (-want +got):\n%s", diff)
	}

	top, ok := prediction.Top()
	if !ok || top.Country != "Chile" {
		t.Fatalf("top: want Chile, got %+v (ok=%v)", top, ok)
	}
}

func TestDecodePrediction_MissingFieldsAreMalformed(t *testing.T) {
	cases := map[string]string{
		"missing top_countries":   `{"top_country_explanation":{}}`,
		"missing explanation":     `{"top_countries":[]}`,
		"string probability":      `{"top_countries":[{"country":"Chile","probability":"0.4","score":1}],"top_country_explanation":{}}`,
		"missing score":           `{"top_countries":[{"country":"Chile","probability":0.4}],"top_country_explanation":{}}`,
		"non numeric explanation": `{"top_countries":[],"top_country_explanation":{"f1":"high"}}`,
		"not json":                `<html>`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.DecodePrediction([]byte(payload))
			if !errors.Is(err, catalog.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestPredictionJSON_KeepsExplanationOrder(t *testing.T) {
	prediction := catalog.Prediction{
		TopCountries: []catalog.CountryScore{{Country: "Chile", Probability: 1, Score: 2}},
		Explanation: catalog.Explanation{
			{FeatureID: "zeta", Weight: 1},
			{FeatureID: "alpha", Weight: 2},
		},
	}

	payload, err := json.Marshal(prediction)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"top_countries":[{"country":"Chile","probability":1,"score":2}],"top_country_explanation":{"zeta":1,"alpha":2}}`
	if string(payload) != want {
		t.Fatalf("payload mismatch:\nwant %s\ngot  %s", want, payload)
	}

	empty, err := json.Marshal(catalog.Prediction{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `{"top_countries":[],"top_country_explanation":{}}` {
		t.Fatalf("empty prediction should not emit nulls, got %s", empty)
	}
}

func TestTaxonomyJSON_KeepsCategoryOrder(t *testing.T) {
	taxonomy := catalog.Taxonomy{Categories: []catalog.Category{
		{Name: "Zone", Features: []catalog.Feature{{ID: "z", Label: "Z"}}},
		{Name: "Area", Features: nil},
	}}

	payload, err := json.Marshal(taxonomy)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"categories":{"Zone":[{"id":"z","label":"Z"}],"Area":[]}}`
	if string(payload) != want {
		t.Fatalf("payload mismatch:\nwant %s\ngot  %s", want, payload)
	}
}

func TestFeatureMeta_LabelFallsBackToID(t *testing.T) {
	meta := catalog.Taxonomy{Categories: []catalog.Category{
		{Name: "Geo", Features: []catalog.Feature{{ID: "f1", Label: "Coastal"}}},
	}}.Meta()

	if got := meta.Label("f1"); got != "Coastal" {
		t.Fatalf("known id: want Coastal, got %q", got)
	}
	if got := meta.Label("unknown"); got != "unknown" {
		t.Fatalf("unknown id: want raw id, got %q", got)
	}
}
