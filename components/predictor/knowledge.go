package predictor

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
)

//go:embed data/knowledge_base.yaml
var dataFS embed.FS

const defaultKnowledgePath = "data/knowledge_base.yaml"

var (
	ErrEmptyKnowledgeBase = errors.New("predictor: knowledge base has no countries")
	ErrDuplicateFeature   = errors.New("predictor: duplicate feature id")
)

// KnowledgeBase holds the declared countries, the display taxonomy and the
// per-country weights of every feature in file order.
type KnowledgeBase struct {
	countries []string
	taxonomy  catalog.Taxonomy
	weights   map[string][]countryWeight
}

type countryWeight struct {
	country string
	value   float64
}

type knowledgeFile struct {
	Countries  []string           `yaml:"countries"`
	Categories []knowledgeSection `yaml:"categories"`
}

type knowledgeSection struct {
	Name     string             `yaml:"name"`
	Features []knowledgeFeature `yaml:"features"`
}

type knowledgeFeature struct {
	ID      string    `yaml:"id"`
	Label   string    `yaml:"label"`
	Weights yaml.Node `yaml:"weights"`
}

var (
	defaultOnce sync.Once
	defaultKB   *KnowledgeBase
	defaultErr  error
)

// DefaultKnowledgeBase returns the embedded knowledge base, parsed once.
func DefaultKnowledgeBase() (*KnowledgeBase, error) {
	defaultOnce.Do(func() {
		defaultKB, defaultErr = LoadKnowledgeBaseFS(dataFS, defaultKnowledgePath)
	})
	return defaultKB, defaultErr
}

// LoadKnowledgeBaseFS reads a YAML knowledge base from fsys.
func LoadKnowledgeBaseFS(fsys fs.FS, name string) (*KnowledgeBase, error) {
	if fsys == nil {
		return nil, fmt.Errorf("predictor: missing filesystem")
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("predictor: open knowledge base %q: %w", name, err)
	}
	defer func() { _ = f.Close() }()
	return LoadKnowledgeBase(f)
}

// LoadKnowledgeBase parses a YAML knowledge base. Weights may name countries
// missing from the declared list; those join a ranking only when a selected
// feature references them.
func LoadKnowledgeBase(r io.Reader) (*KnowledgeBase, error) {
	if r == nil {
		return nil, fmt.Errorf("predictor: missing reader")
	}
	var file knowledgeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("predictor: decode knowledge base: %w", err)
	}

	kb := &KnowledgeBase{weights: map[string][]countryWeight{}}
	declared := map[string]struct{}{}
	for _, country := range file.Countries {
		country = strings.TrimSpace(country)
		if country == "" {
			continue
		}
		if _, ok := declared[country]; ok {
			continue
		}
		declared[country] = struct{}{}
		kb.countries = append(kb.countries, country)
	}

	referenced := len(kb.countries) > 0
	for _, section := range file.Categories {
		category := catalog.Category{Name: section.Name, Features: make([]catalog.Feature, 0, len(section.Features))}
		for _, feature := range section.Features {
			id := strings.TrimSpace(feature.ID)
			if id == "" {
				return nil, fmt.Errorf("predictor: category %q has a feature without id", section.Name)
			}
			if _, dup := kb.weights[id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateFeature, id)
			}
			weights, err := decodeWeights(&feature.Weights)
			if err != nil {
				return nil, fmt.Errorf("predictor: feature %q: %w", id, err)
			}
			if len(weights) > 0 {
				referenced = true
			}
			kb.weights[id] = weights
			category.Features = append(category.Features, catalog.Feature{ID: id, Label: feature.Label})
		}
		kb.taxonomy.Categories = append(kb.taxonomy.Categories, category)
	}

	if !referenced {
		return nil, ErrEmptyKnowledgeBase
	}
	return kb, nil
}

// decodeWeights reads a country: weight mapping keeping document order.
func decodeWeights(node *yaml.Node) ([]countryWeight, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return []countryWeight{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("weights must be a mapping (line %d)", node.Line)
	}
	out := make([]countryWeight, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		country := strings.TrimSpace(node.Content[i].Value)
		var value float64
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("weight for %q: %w", country, err)
		}
		if _, ok := seen[country]; ok {
			return nil, fmt.Errorf("country %q weighted twice", country)
		}
		seen[country] = struct{}{}
		out = append(out, countryWeight{country: country, value: value})
	}
	return out, nil
}

// Countries returns the declared countries. They rank in this order on ties,
// ahead of any undeclared country a selection pulls in.
func (kb *KnowledgeBase) Countries() []string {
	if kb == nil {
		return nil
	}
	return append([]string{}, kb.countries...)
}

// Taxonomy returns the categories served by GET /features.
func (kb *KnowledgeBase) Taxonomy() catalog.Taxonomy {
	if kb == nil {
		return catalog.Taxonomy{}
	}
	out := catalog.Taxonomy{Categories: make([]catalog.Category, len(kb.taxonomy.Categories))}
	for i, category := range kb.taxonomy.Categories {
		out.Categories[i] = catalog.Category{
			Name:     category.Name,
			Features: append([]catalog.Feature{}, category.Features...),
		}
	}
	return out
}

// Weight reports the weight of feature id for country and whether the feature
// exists.
func (kb *KnowledgeBase) Weight(id, country string) (float64, bool) {
	if kb == nil {
		return 0, false
	}
	weights, ok := kb.weights[id]
	if !ok {
		return 0, false
	}
	for _, w := range weights {
		if w.country == country {
			return w.value, true
		}
	}
	return 0, true
}
