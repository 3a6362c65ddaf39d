package predictor

import (
	"errors"
	"net/http"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
)

const DefaultTopN = 10

const (
	MessageEmptySelection = "Selecione ao menos uma característica."
	MessageNoEvidence     = "Não foi possível calcular probabilidade com essas características."
)

var (
	ErrEmptySelection = StatusError{Code: http.StatusBadRequest, Err: errors.New(MessageEmptySelection)}
	ErrNoEvidence     = StatusError{Code: http.StatusUnprocessableEntity, Err: errors.New(MessageNoEvidence)}
)

// Scorer ranks countries for a selection by summing feature weights.
type Scorer struct {
	kb   *KnowledgeBase
	topN int
}

func NewScorer(kb *KnowledgeBase, topN int) *Scorer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Scorer{kb: kb, topN: topN}
}

// Predict scores every country, normalizes the scores into probabilities and
// returns the best topN plus the evidence behind the winner. Unknown ids are
// ignored; a repeated id counts once per occurrence. Undeclared countries join
// the ranking in the order selected features first mention them.
func (s *Scorer) Predict(selected []string) (catalog.Prediction, error) {
	if len(selected) == 0 {
		return catalog.Prediction{}, ErrEmptySelection
	}
	if s == nil || s.kb == nil {
		return catalog.Prediction{}, StatusError{Code: http.StatusInternalServerError, Err: ErrEmptyKnowledgeBase}
	}

	countries := s.kb.Countries()
	index := make(map[string]int, len(countries))
	for i, country := range countries {
		index[country] = i
	}
	scores := make([]float64, len(countries))
	for _, id := range selected {
		for _, w := range s.kb.weights[id] {
			i, ok := index[w.country]
			if !ok {
				i = len(countries)
				index[w.country] = i
				countries = append(countries, w.country)
				scores = append(scores, 0)
			}
			scores[i] += w.value
		}
	}

	total := floats.Sum(scores)
	if total <= 0 {
		return catalog.Prediction{}, ErrNoEvidence
	}

	ranked := make([]catalog.CountryScore, len(countries))
	for i, country := range countries {
		ranked[i] = catalog.CountryScore{
			Country:     country,
			Probability: scores[i] / total,
			Score:       scores[i],
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if len(ranked) > s.topN {
		ranked = ranked[:s.topN]
	}

	return catalog.Prediction{
		TopCountries: ranked,
		Explanation:  s.explain(selected, ranked[0].Country),
	}, nil
}

func (s *Scorer) explain(selected []string, country string) catalog.Explanation {
	explanation := catalog.Explanation{}
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := seen[id]; ok {
			continue
		}
		weight, ok := s.kb.Weight(id, country)
		if !ok || weight == 0 {
			continue
		}
		seen[id] = struct{}{}
		explanation = append(explanation, catalog.Contribution{FeatureID: id, Weight: weight})
	}
	return explanation
}
