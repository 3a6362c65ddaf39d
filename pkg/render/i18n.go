package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Message keys shared by the controller and every adapter.
const (
	KeyPageTitle          = "page.title"
	KeyPageFeatures       = "page.features"
	KeyPageResults        = "page.results"
	KeyPageEvidence       = "page.evidence"
	KeyActionAnalyze      = "actions.analyze"
	KeyActionAnalyzing    = "actions.analyzing"
	KeyActionAgain        = "actions.again"
	KeyErrorLoadFeatures  = "errors.load_features"
	KeyErrorEmptySelect   = "errors.empty_selection"
	KeyErrorAnalysis      = "errors.analysis"
	KeyErrorQuery         = "errors.query"
	KeyHeaderCountry      = "results.header.country"
	KeyHeaderProbability  = "results.header.probability"
	KeyHeaderScore        = "results.header.score"
	KeyEvidence           = "results.evidence"
	KeyNoEvidence         = "results.no_evidence"
	KeyLoadingFeatures    = "status.loading_features"
	KeySelectionPrompt    = "prompts.select"
	KeySelectionHelp      = "prompts.select_help"
	KeyEmptyTaxonomy      = "status.empty_taxonomy"
	DefaultLocale         = "pt-BR"
	EnglishLocale         = "en"
	translationArgsFormat = "%"
)

var (
	// ErrMissingTranslator signals that no translator was configured.
	ErrMissingTranslator = errors.New("render: translator is nil")
	// ErrMissingTranslation signals a key without a message in any bundle.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves message keys for a locale. Args are applied as fmt
// verbs when the message contains any.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

var builtinBundles = map[string]map[string]string{
	DefaultLocale: {
		KeyPageTitle:         "GeoIdentify",
		KeyPageFeatures:      "Características",
		KeyPageResults:       "Países mais prováveis",
		KeyPageEvidence:      "Evidências",
		KeyActionAnalyze:     "Analisar",
		KeyActionAnalyzing:   "Analisando...",
		KeyActionAgain:       "Analisar novamente?",
		KeyErrorLoadFeatures: "Erro ao carregar características.",
		KeyErrorEmptySelect:  "Selecione pelo menos uma característica antes de analisar.",
		KeyErrorAnalysis:     "Erro na análise.",
		KeyErrorQuery:        "Erro ao processar a consulta.",
		KeyHeaderCountry:     "País",
		KeyHeaderProbability: "Probabilidade (%)",
		KeyHeaderScore:       "Score interno",
		KeyEvidence:          "%s (peso %s)",
		KeyNoEvidence:        "Nenhuma evidência específica encontrada para o país mais provável.",
		KeyLoadingFeatures:   "Carregando características...",
		KeySelectionPrompt:   "%s:",
		KeySelectionHelp:     "Espaço marca, Enter confirma.",
		KeyEmptyTaxonomy:     "Nenhuma característica disponível.",
	},
	EnglishLocale: {
		KeyPageTitle:         "GeoIdentify",
		KeyPageFeatures:      "Features",
		KeyPageResults:       "Most likely countries",
		KeyPageEvidence:      "Evidence",
		KeyActionAnalyze:     "Analyze",
		KeyActionAnalyzing:   "Analyzing...",
		KeyActionAgain:       "Analyze again?",
		KeyErrorLoadFeatures: "Could not load features.",
		KeyErrorEmptySelect:  "Select at least one feature before analyzing.",
		KeyErrorAnalysis:     "Analysis failed.",
		KeyErrorQuery:        "Could not process the request.",
		KeyHeaderCountry:     "Country",
		KeyHeaderProbability: "Probability (%)",
		KeyHeaderScore:       "Internal score",
		KeyEvidence:          "%s (weight %s)",
		KeyNoEvidence:        "No specific evidence found for the most likely country.",
		KeyLoadingFeatures:   "Loading features...",
		KeySelectionPrompt:   "%s:",
		KeySelectionHelp:     "Space toggles, Enter confirms.",
		KeyEmptyTaxonomy:     "No features available.",
	},
}

// Catalog is an in-memory Translator backed by per-locale bundles. Unknown
// locales resolve to the closest supported one, then to the fallback.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	bundles  map[string]map[string]string
	matcher  language.Matcher
	tags     []string
}

// NewCatalog returns a catalog seeded with the built-in pt-BR and en bundles.
func NewCatalog() *Catalog {
	c := &Catalog{
		fallback: DefaultLocale,
		bundles:  make(map[string]map[string]string, len(builtinBundles)),
	}
	for locale, messages := range builtinBundles {
		c.addLocked(locale, messages)
	}
	c.rebuildMatcher()
	return c
}

// Add merges messages into the bundle for locale, creating it when needed.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = strings.TrimSpace(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(locale, messages)
	c.rebuildMatcher()
}

func (c *Catalog) addLocked(locale string, messages map[string]string) {
	bundle, ok := c.bundles[locale]
	if !ok {
		bundle = make(map[string]string, len(messages))
		c.bundles[locale] = bundle
	}
	for key, value := range messages {
		bundle[strings.TrimSpace(key)] = value
	}
}

// rebuildMatcher keeps the fallback locale first so it wins when nothing
// matches.
func (c *Catalog) rebuildMatcher() {
	locales := make([]string, 0, len(c.bundles))
	for locale := range c.bundles {
		if locale != c.fallback {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	locales = append([]string{c.fallback}, locales...)

	tags := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		tags = append(tags, language.Make(locale))
	}
	c.tags = locales
	c.matcher = language.NewMatcher(tags)
}

// Locales lists supported locales, fallback first.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.tags...)
}

// Match picks the supported locale closest to the given preferences. Each
// preference may be a tag ("en-GB") or an Accept-Language header value.
func (c *Catalog) Match(preferences ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var cleaned []string
	for _, pref := range preferences {
		if trimmed := strings.TrimSpace(pref); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return c.fallback
	}
	_, index := language.MatchStrings(c.matcher, cleaned...)
	if index < 0 || index >= len(c.tags) {
		return c.fallback
	}
	return c.tags[index]
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	resolved := c.Match(locale)

	c.mu.RLock()
	message, ok := c.bundles[resolved][key]
	if !ok {
		message, ok = c.bundles[c.fallback][key]
	}
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, resolved)
	}
	if len(args) > 0 && strings.Contains(message, translationArgsFormat) {
		return fmt.Sprintf(message, args...), nil
	}
	return message, nil
}

// Text resolves key through t, falling back to the key itself so a missing
// message never blanks out the UI.
func Text(t Translator, locale, key string, args ...any) string {
	return TextOr(t, locale, key, missingTranslationDefault, args...)
}

// TextOr is Text with a custom missing-translation handler.
func TextOr(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	message, err := t.Translate(locale, key, args...)
	if err != nil || strings.TrimSpace(message) == "" {
		return onMissing(locale, key, args, err)
	}
	return message
}

// ViewMessages resolves the strings the pure view builders need.
func ViewMessages(t Translator, locale string) view.Messages {
	defaults := view.DefaultMessages()
	pick := func(key, fallback string) string {
		return TextOr(t, locale, key, func(string, string, []any, error) string { return fallback })
	}
	return view.Messages{
		CountryHeader:     pick(KeyHeaderCountry, defaults.CountryHeader),
		ProbabilityHeader: pick(KeyHeaderProbability, defaults.ProbabilityHeader),
		ScoreHeader:       pick(KeyHeaderScore, defaults.ScoreHeader),
		Evidence:          pick(KeyEvidence, defaults.Evidence),
		NoEvidence:        pick(KeyNoEvidence, defaults.NoEvidence),
	}
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// MatchLocale negotiates against the built-in bundles. Each argument may be a
// tag or an Accept-Language header value.
func MatchLocale(accept ...string) string {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog()
	})
	return defaultCatalog.Match(accept...)
}
