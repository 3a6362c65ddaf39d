package view

import (
	"fmt"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
)

// BuildForm maps a taxonomy to one group per category and one checkbox per
// feature. checked may be nil.
func BuildForm(taxonomy catalog.Taxonomy, checked map[string]bool) Form {
	form := Form{Groups: make([]Group, 0, len(taxonomy.Categories))}
	for _, category := range taxonomy.Categories {
		group := Group{
			Name:       category.Name,
			Checkboxes: make([]Checkbox, 0, len(category.Features)),
		}
		for _, feature := range category.Features {
			group.Checkboxes = append(group.Checkboxes, Checkbox{
				ID:      feature.ID,
				Label:   feature.Label,
				Checked: checked[feature.ID],
			})
		}
		form.Groups = append(form.Groups, group)
	}
	return form
}

// BuildResults maps a prediction to a fresh results table and evidence list.
// Row order and evidence order follow the prediction; nothing is re-sorted.
func BuildResults(prediction catalog.Prediction, labels catalog.FeatureMeta, messages Messages) Results {
	results := Results{
		Table: Table{
			Headers: []string{messages.CountryHeader, messages.ProbabilityHeader, messages.ScoreHeader},
			Rows:    make([]Row, 0, len(prediction.TopCountries)),
		},
	}
	for _, country := range prediction.TopCountries {
		results.Table.Rows = append(results.Table.Rows, Row{
			Country:     country.Country,
			Probability: FormatProbability(country.Probability),
			Score:       FormatScore(country.Score),
		})
	}

	if len(prediction.Explanation) == 0 {
		results.Evidence = []Evidence{{Text: messages.NoEvidence, Placeholder: true}}
		return results
	}

	format := messages.Evidence
	if format == "" {
		format = DefaultMessages().Evidence
	}
	results.Evidence = make([]Evidence, 0, len(prediction.Explanation))
	for _, contribution := range prediction.Explanation {
		results.Evidence = append(results.Evidence, Evidence{
			FeatureID: contribution.FeatureID,
			Text:      fmt.Sprintf(format, labels.Label(contribution.FeatureID), FormatWeight(contribution.Weight)),
		})
	}
	return results
}
