package webui

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-geoidentify/pkg/orchestrator"
)

type RequestIDFunc func(r *http.Request) string

type Options struct {
	IndexPath   string
	AnalyzePath string
	AssetsPath  string
	FieldName   string
	LocaleParam string
	Theme       string
	Variant     string
	RequestID   RequestIDFunc
	Logger      *log.Logger

	Orchestrator *orchestrator.Orchestrator
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		IndexPath:   "/",
		AnalyzePath: "/analyze",
		AssetsPath:  "/assets/",
		FieldName:   "feature",
		LocaleParam: "lang",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.IndexPath == "" {
		opts.IndexPath = "/"
	}
	if opts.AnalyzePath == "" {
		opts.AnalyzePath = "/analyze"
	}
	if opts.FieldName == "" {
		opts.FieldName = "feature"
	}
	if opts.RequestID == nil {
		opts.RequestID = chiRequestID
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return opts
}

// WithOrchestrator sets the pipeline used to build pages. Required.
func WithOrchestrator(orch *orchestrator.Orchestrator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Orchestrator = orch
	}
}

func WithIndexPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.IndexPath = path
	}
}

func WithAnalyzePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AnalyzePath = path
	}
}

// WithAssetsPath sets where the stylesheet is served. An empty path disables
// the route.
func WithAssetsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetsPath = path
	}
}

func WithFieldName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FieldName = name
	}
}

// WithLocaleParam names the query parameter that overrides Accept-Language.
// An empty name disables the override.
func WithLocaleParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LocaleParam = name
	}
}

func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = name
		o.Variant = variant
	}
}

func WithRequestID(fn RequestIDFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RequestID = fn
	}
}

func WithLogger(logger *log.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func chiRequestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return middleware.GetReqID(r.Context())
}
