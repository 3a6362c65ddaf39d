package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

func sampleTaxonomy() catalog.Taxonomy {
	return catalog.Taxonomy{Categories: []catalog.Category{
		{Name: "Geo", Features: []catalog.Feature{{ID: "f1", Label: "Coastal"}, {ID: "f2", Label: "Mountains"}}},
		{Name: "Climate", Features: []catalog.Feature{{ID: "f3", Label: "Tropical"}}},
		{Name: "Empty", Features: nil},
	}}
}

func TestBuildForm_OneGroupPerCategory(t *testing.T) {
	form := view.BuildForm(sampleTaxonomy(), map[string]bool{"f2": true, "unknown": true})

	if got := len(form.Groups); got != 3 {
		t.Fatalf("groups: want 3, got %d", got)
	}
	if got := form.CheckboxCount(); got != 3 {
		t.Fatalf("checkboxes: want 3, got %d", got)
	}

	want := []view.Group{
		{Name: "Geo", Checkboxes: []view.Checkbox{
			{ID: "f1", Label: "Coastal"},
			{ID: "f2", Label: "Mountains", Checked: true},
		}},
		{Name: "Climate", Checkboxes: []view.Checkbox{{ID: "f3", Label: "Tropical"}}},
		{Name: "Empty", Checkboxes: []view.Checkbox{}},
	}
	if diff := cmp.Diff(want, form.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f2"}, form.Checked()); diff != "" {
		t.Fatalf("checked mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildResults_Example(t *testing.T) {
	taxonomy := catalog.Taxonomy{Categories: []catalog.Category{
		{Name: "Geo", Features: []catalog.Feature{{ID: "f1", Label: "Coastal"}}},
	}}
	prediction := catalog.Prediction{
		TopCountries: []catalog.CountryScore{{Country: "Chile", Probability: 0.42, Score: 1.236}},
		Explanation:  catalog.Explanation{{FeatureID: "f1", Weight: 0.5}},
	}

	results := view.BuildResults(prediction, taxonomy.Meta(), view.DefaultMessages())

	want := view.Results{
		Table: view.Table{
			Headers: []string{"País", "Probabilidade (%)", "Score interno"},
			Rows:    []view.Row{{Country: "Chile", Probability: "42.0%", Score: "1.24"}},
		},
		Evidence: []view.Evidence{{FeatureID: "f1", Text: "Coastal (peso 0.50)"}},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildResults_PreservesInputOrder(t *testing.T) {
	prediction := catalog.Prediction{
		TopCountries: []catalog.CountryScore{
			{Country: "Peru", Probability: 0.1, Score: 1},
			{Country: "Chile", Probability: 0.7, Score: 7},
			{Country: "Bolivia", Probability: 0.2, Score: 2},
		},
		Explanation: catalog.Explanation{
			{FeatureID: "f3", Weight: -1.005},
			{FeatureID: "ghost", Weight: 2},
			{FeatureID: "f1", Weight: 0.125},
		},
	}

	results := view.BuildResults(prediction, sampleTaxonomy().Meta(), view.DefaultMessages())

	var countries []string
	for _, row := range results.Table.Rows {
		countries = append(countries, row.Country)
	}
	if diff := cmp.Diff([]string{"Peru", "Chile", "Bolivia"}, countries); diff != "" {
		t.Fatalf("row order mismatch (-want +got):\n%s", diff)
	}

	var texts []string
	for _, entry := range results.Evidence {
		texts = append(texts, entry.Text)
	}
	want := []string{"Tropical (peso -1.00)", "ghost (peso 2.00)", "Coastal (peso 0.13)"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatalf("evidence mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildResults_EmptyExplanationYieldsPlaceholder(t *testing.T) {
	prediction := catalog.Prediction{
		TopCountries: []catalog.CountryScore{{Country: "Chile", Probability: 1, Score: 3}},
	}

	results := view.BuildResults(prediction, nil, view.DefaultMessages())

	want := []view.Evidence{{Text: view.DefaultMessages().NoEvidence, Placeholder: true}}
	if diff := cmp.Diff(want, results.Evidence); diff != "" {
		t.Fatalf("evidence mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatters(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "probability", got: view.FormatProbability(0.42), want: "42.0%"},
		{name: "probability full", got: view.FormatProbability(1), want: "100.0%"},
		{name: "probability zero", got: view.FormatProbability(0), want: "0.0%"},
		{name: "probability rounding", got: view.FormatProbability(0.12345), want: "12.3%"},
		{name: "score", got: view.FormatScore(1.236), want: "1.24"},
		{name: "score integer", got: view.FormatScore(3), want: "3.00"},
		{name: "weight negative", got: view.FormatWeight(-0.5), want: "-0.50"},
		{name: "weight tie rounds away from zero", got: view.FormatWeight(0.125), want: "0.13"},
		{name: "weight negative tie", got: view.FormatWeight(-0.375), want: "-0.38"},
		{name: "weight below tie", got: view.FormatWeight(1.005), want: "1.00"},
		{name: "weight negative zero", got: view.FormatWeight(-0.001), want: "-0.00"},
		{name: "score large", got: view.FormatScore(1234.5), want: "1234.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, tc.got)
			}
		})
	}
}
