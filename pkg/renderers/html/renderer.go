// Package html renders a view.Page as a server-side HTML document using
// pongo2 templates and go-theme tokens.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-geoidentify/pkg/render"
	rendertemplate "github.com/goliatone/go-geoidentify/pkg/render/template"
	"github.com/goliatone/go-geoidentify/pkg/render/template/pongo"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

// DefaultAction is where the analyze form posts.
const DefaultAction = "/analyze"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       render.Translator
	selector         theme.ThemeSelector
	theme            string
	variant          string
	action           string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator overrides the message catalog used for page chrome.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithThemeSelector replaces the built-in theme set.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// WithTheme sets the theme and variant used when a request names none.
func WithTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.theme = name
		cfg.variant = variant
	}
}

// WithAction overrides the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		if action != "" {
			cfg.action = action
		}
	}
}

// Renderer produces a complete HTML document for a page.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	translator render.Translator
	selector   theme.ThemeSelector
	theme      string
	variant    string
	action     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		action:     DefaultAction,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.translator == nil {
		cfg.translator = render.NewCatalog()
	}
	if cfg.selector == nil {
		themes, err := NewThemes()
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure themes: %w", err)
		}
		cfg.selector = themes
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:  templates,
		translator: cfg.translator,
		selector:   cfg.selector,
		theme:      cfg.theme,
		variant:    cfg.variant,
		action:     cfg.action,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template. Theme, action and asset base may be
// overridden per request through render.WithOptions.
func (r *Renderer) Render(ctx context.Context, page view.Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	opts := render.OptionsFromContext(ctx)

	themeName, variant := r.theme, r.variant
	if opts.Theme != "" {
		themeName, variant = opts.Theme, opts.Variant
	}
	selection, err := r.selector.Select(themeName, variant)
	if err != nil {
		return nil, fmt.Errorf("html renderer: select theme: %w", err)
	}
	themeCfg := RendererConfig(selection)

	action := r.action
	if opts.Action != "" {
		action = opts.Action
	}

	pageTemplate := PagePartial
	if themeCfg != nil && themeCfg.Partials[PagePartial] != "" {
		pageTemplate = themeCfg.Partials[PagePartial]
	}
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"page":       page,
		"text":       r.chrome(page.Locale),
		"theme":      themeContext(themeCfg),
		"stylesheet": stylesheetURL(themeCfg, opts.AssetBase),
		"action":     action,
		"request_id": opts.RequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) chrome(locale string) map[string]string {
	return map[string]string{
		"title":    render.Text(r.translator, locale, render.KeyPageTitle),
		"features": render.Text(r.translator, locale, render.KeyPageFeatures),
		"results":  render.Text(r.translator, locale, render.KeyPageResults),
		"evidence": render.Text(r.translator, locale, render.KeyPageEvidence),
		"empty":    render.Text(r.translator, locale, render.KeyEmptyTaxonomy),
	}
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
}

func stylesheetURL(cfg *theme.RendererConfig, assetBase string) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	url := cfg.AssetURL(StylesheetAsset)
	if url == "" || assetBase == "" {
		return url
	}
	// The asset base replaces the manifest prefix; the file name is kept.
	return strings.TrimRight(assetBase, "/") + "/" + path.Base(url)
}
