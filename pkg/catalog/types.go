package catalog

import (
	"bytes"
	"encoding/json"
)

// Feature is a boolean attribute the user may select as evidence.
type Feature struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Category groups related features for display purposes.
type Category struct {
	Name     string
	Features []Feature
}

// Taxonomy is the ordered list of categories returned by the backend.
type Taxonomy struct {
	Categories []Category
}

// FeatureCount reports the number of features across all categories.
func (t Taxonomy) FeatureCount() int {
	total := 0
	for _, category := range t.Categories {
		total += len(category.Features)
	}
	return total
}

// Lookup finds a feature by id regardless of its category.
func (t Taxonomy) Lookup(id string) (Feature, bool) {
	for _, category := range t.Categories {
		for _, feature := range category.Features {
			if feature.ID == id {
				return feature, true
			}
		}
	}
	return Feature{}, false
}

// IDs returns every feature id in display order.
func (t Taxonomy) IDs() []string {
	ids := make([]string, 0, t.FeatureCount())
	for _, category := range t.Categories {
		for _, feature := range category.Features {
			ids = append(ids, feature.ID)
		}
	}
	return ids
}

// Meta builds a fresh id→label lookup for the taxonomy.
func (t Taxonomy) Meta() FeatureMeta {
	meta := make(FeatureMeta, t.FeatureCount())
	for _, category := range t.Categories {
		for _, feature := range category.Features {
			meta[feature.ID] = feature.Label
		}
	}
	return meta
}

// MarshalJSON emits the `{"categories": {...}}` wire shape, keeping category
// order.
func (t Taxonomy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"categories":{`)
	for i, category := range t.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, category.Name); err != nil {
			return nil, err
		}
		features := category.Features
		if features == nil {
			features = []Feature{}
		}
		payload, err := json.Marshal(features)
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the wire shape produced by MarshalJSON.
func (t *Taxonomy) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeTaxonomy(data)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// FeatureMeta maps feature ids to their display labels. It is rebuilt on every
// taxonomy load and never mutated afterwards.
type FeatureMeta map[string]string

// Label resolves an id to its label, falling back to the raw id.
func (m FeatureMeta) Label(id string) string {
	if label, ok := m[id]; ok && label != "" {
		return label
	}
	return id
}

// CountryScore is one ranked entry of a prediction.
type CountryScore struct {
	Country     string  `json:"country"`
	Probability float64 `json:"probability"`
	Score       float64 `json:"score"`
}

// Contribution is the weight a selected feature adds to the top country.
type Contribution struct {
	FeatureID string
	Weight    float64
}

// Explanation is an ordered feature id → weight mapping.
type Explanation []Contribution

// MarshalJSON emits a JSON object preserving contribution order.
func (e Explanation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, contribution := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, contribution.FeatureID); err != nil {
			return nil, err
		}
		payload, err := json.Marshal(contribution.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Prediction is the backend's answer for a selection.
type Prediction struct {
	TopCountries []CountryScore `json:"top_countries"`
	Explanation  Explanation    `json:"top_country_explanation"`
}

// MarshalJSON guarantees arrays/objects are never emitted as null.
func (p Prediction) MarshalJSON() ([]byte, error) {
	type wire Prediction
	out := wire(p)
	if out.TopCountries == nil {
		out.TopCountries = []CountryScore{}
	}
	if out.Explanation == nil {
		out.Explanation = Explanation{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the wire shape produced by MarshalJSON.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	decoded, err := DecodePrediction(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Top returns the best ranked country, if any.
func (p Prediction) Top() (CountryScore, bool) {
	if len(p.TopCountries) == 0 {
		return CountryScore{}, false
	}
	return p.TopCountries[0], true
}

func writeKey(buf *bytes.Buffer, key string) error {
	payload, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(payload)
	buf.WriteByte(':')
	return nil
}
