package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-geoidentify/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
}

// WithFS loads templates from files. Names resolve from the FS root.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the extension appended to bare template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
type Engine struct {
	mu     sync.RWMutex
	set    *pongo2.TemplateSet
	cache  map[string]*pongo2.Template
	tplExt string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over the configured template FS and makes the domid
// filter available to its templates.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		return nil, errors.New("pongo: templates fs.FS is required")
	}

	engine := &Engine{
		set:    pongo2.NewSet("geoidentify", pongo2.NewFSLoader(cfg.templates)),
		cache:  make(map[string]*pongo2.Template),
		tplExt: cfg.extension,
	}
	if !pongo2.FilterExists("domid") {
		if err := engine.RegisterFilter("domid", DOMID); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// RenderTemplate executes the named template, appending the configured
// extension when missing. Parsed templates are cached.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	if !strings.HasSuffix(name, e.tplExt) {
		name += e.tplExt
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	values, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(values, &buf); err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", name, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// RegisterFilter registers a filter. pongo2 filters are process-wide, so a
// name already taken is an error.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil && !param.IsNil() {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

// toContext round-trips data through JSON so templates see the json field
// names of structs rather than Go field names.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	values := pongo2.Context{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("data must encode to a JSON object: %w", err)
	}
	return values, nil
}

const hexDigits = "0123456789abcdef"

// DOMID turns a feature id into a token usable in id/for attributes. ASCII
// letters, digits and underscores are kept; every other byte becomes a dash
// followed by two hex digits, so distinct ids never share a token. A non-empty
// param is used as prefix, separated by a dash.
func DOMID(input any, param any) (any, error) {
	var b strings.Builder
	if prefix := strings.TrimSpace(fmt.Sprint(valueOrEmpty(param))); prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('-')
	}
	id := fmt.Sprint(valueOrEmpty(input))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('-')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}
	return b.String(), nil
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
