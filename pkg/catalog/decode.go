package catalog

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeTaxonomy parses a `/features` payload. Category order follows the
// document order of the `categories` object.
func DecodeTaxonomy(data []byte) (Taxonomy, error) {
	if !gjson.ValidBytes(data) {
		return Taxonomy{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Taxonomy{}, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}
	categories := root.Get("categories")
	if !categories.IsObject() {
		return Taxonomy{}, fmt.Errorf("%w: categories must be an object", ErrMalformedResponse)
	}

	var (
		taxonomy Taxonomy
		err      error
	)
	seen := make(map[string]string)
	categories.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !value.IsArray() {
			err = fmt.Errorf("%w: category %q must be an array", ErrMalformedResponse, name)
			return false
		}
		category := Category{Name: name, Features: []Feature{}}
		for idx, item := range value.Array() {
			feature, featureErr := decodeFeature(item)
			if featureErr != nil {
				err = fmt.Errorf("%w: category %q item %d: %v", ErrMalformedResponse, name, idx, featureErr)
				return false
			}
			if owner, exists := seen[feature.ID]; exists {
				err = fmt.Errorf("%w: %w: %q in %q and %q", ErrMalformedResponse, ErrDuplicateFeature, feature.ID, owner, name)
				return false
			}
			seen[feature.ID] = name
			category.Features = append(category.Features, feature)
		}
		taxonomy.Categories = append(taxonomy.Categories, category)
		return true
	})
	if err != nil {
		return Taxonomy{}, err
	}
	return taxonomy, nil
}

func decodeFeature(item gjson.Result) (Feature, error) {
	if !item.IsObject() {
		return Feature{}, errors.New("feature must be an object")
	}
	id := item.Get("id")
	if id.Type != gjson.String || id.String() == "" {
		return Feature{}, errors.New("feature id must be a non-empty string")
	}
	label := item.Get("label")
	if label.Type != gjson.String {
		return Feature{}, fmt.Errorf("feature %q label must be a string", id.String())
	}
	return Feature{ID: id.String(), Label: label.String()}, nil
}

// DecodePrediction parses a `/predict` success payload. Country order and
// explanation key order follow the document.
func DecodePrediction(data []byte) (Prediction, error) {
	if !gjson.ValidBytes(data) {
		return Prediction{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Prediction{}, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}

	countries := root.Get("top_countries")
	if !countries.IsArray() {
		return Prediction{}, fmt.Errorf("%w: top_countries must be an array", ErrMalformedResponse)
	}
	explanation := root.Get("top_country_explanation")
	if !explanation.IsObject() {
		return Prediction{}, fmt.Errorf("%w: top_country_explanation must be an object", ErrMalformedResponse)
	}

	prediction := Prediction{
		TopCountries: make([]CountryScore, 0, len(countries.Array())),
		Explanation:  Explanation{},
	}
	for idx, item := range countries.Array() {
		score, err := decodeCountryScore(item)
		if err != nil {
			return Prediction{}, fmt.Errorf("%w: top_countries[%d]: %v", ErrMalformedResponse, idx, err)
		}
		prediction.TopCountries = append(prediction.TopCountries, score)
	}

	var err error
	explanation.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("%w: weight for %q must be a number", ErrMalformedResponse, key.String())
			return false
		}
		prediction.Explanation = append(prediction.Explanation, Contribution{
			FeatureID: key.String(),
			Weight:    value.Float(),
		})
		return true
	})
	if err != nil {
		return Prediction{}, err
	}
	return prediction, nil
}

func decodeCountryScore(item gjson.Result) (CountryScore, error) {
	if !item.IsObject() {
		return CountryScore{}, errors.New("entry must be an object")
	}
	country := item.Get("country")
	if country.Type != gjson.String {
		return CountryScore{}, errors.New("country must be a string")
	}
	probability := item.Get("probability")
	if probability.Type != gjson.Number {
		return CountryScore{}, errors.New("probability must be a number")
	}
	score := item.Get("score")
	if score.Type != gjson.Number {
		return CountryScore{}, errors.New("score must be a number")
	}
	return CountryScore{
		Country:     country.String(),
		Probability: probability.Float(),
		Score:       score.Float(),
	}, nil
}
