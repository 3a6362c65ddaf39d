package html

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultTheme is the built-in theme name.
	DefaultTheme = "geoidentify"
	// DefaultVariant is the variant used when none is requested.
	DefaultVariant = "light"
	// StylesheetAsset is the asset key templates resolve for the stylesheet.
	StylesheetAsset = "stylesheet"
)

// ErrThemeNotFound reports an unknown theme or variant.
var ErrThemeNotFound = errors.New("html: theme not found")

// DefaultManifest describes the built-in theme with light and dark variants.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":          "#0b7285",
			"brand-contrast": "#ffffff",
			"background":     "#ffffff",
			"foreground":     "#1f2933",
			"surface":        "#f8fafc",
			"border":         "#d9e2ec",
			"error":          "#c92a2a",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":      "#3bc9db",
					"background": "#101418",
					"foreground": "#e6edf3",
					"surface":    "#1b222a",
					"border":     "#2d3742",
					"error":      "#ff8787",
				},
			},
		},
	}
}

// PagePartial is the template key a theme may override; its fallback is the
// embedded page template.
const PagePartial = "page"

// Themes is a theme.Selector over a go-theme memory registry that rejects
// unknown themes and variants instead of falling back.
type Themes struct {
	registry *theme.MemoryRegistry
	selector theme.Selector
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests in a go-theme registry. The first manifest
// becomes the default theme.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}

	t := &Themes{registry: theme.NewRegistry()}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := t.registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("html: register theme %q: %w", manifest.Name, err)
		}
		if t.selector.DefaultTheme == "" {
			t.selector.DefaultTheme = manifest.Name
		}
	}
	if t.selector.DefaultTheme == "" {
		return nil, errors.New("html: at least one theme manifest is required")
	}
	t.selector.Registry = t.registry
	t.selector.DefaultVariant = DefaultVariant
	return t, nil
}

// Names lists registered theme names.
func (t *Themes) Names() []string {
	refs := t.registry.Themes()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !slices.Contains(names, ref.Name) {
			names = append(names, ref.Name)
		}
	}
	return names
}

// Select implements theme.ThemeSelector. Empty arguments use the defaults;
// DefaultVariant always resolves to the base manifest.
func (t *Themes) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = t.selector.DefaultTheme
	}
	manifest, err := t.registry.Theme(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if variant != "" && variant != DefaultVariant {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrThemeNotFound, name, variant)
		}
	}
	return t.selector.Select(name, variant, opts...)
}

// RendererConfig resolves a selection into tokens, CSS vars, the page partial
// and asset URLs.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	cfg := selection.RendererTheme(map[string]string{PagePartial: PagePartial})
	return &cfg
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
