package predictor

import (
	"io"
	"log"
	"net/http"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	FeaturesPath string
	PredictPath  string
	OpenAPIPath  string
	TopN         int
	AllowOrigin  string
	MaxBodyBytes int64
	Guard        GuardFunc
	Logger       *log.Logger

	// KnowledgeBase defaults to the embedded one when nil.
	KnowledgeBase *KnowledgeBase
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		FeaturesPath: "/features",
		PredictPath:  "/predict",
		OpenAPIPath:  "/openapi.yaml",
		TopN:         DefaultTopN,
		AllowOrigin:  "*",
		MaxBodyBytes: 1 << 20,
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
	if opts.FeaturesPath == "" {
		opts.FeaturesPath = "/features"
	}
	if opts.PredictPath == "" {
		opts.PredictPath = "/predict"
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return opts
}

func WithFeaturesPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FeaturesPath = path
	}
}

func WithPredictPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PredictPath = path
	}
}

// WithOpenAPIPath sets where the contract document is served. An empty path
// disables the route.
func WithOpenAPIPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OpenAPIPath = path
	}
}

func WithTopN(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TopN = n
	}
}

// WithAllowOrigin sets Access-Control-Allow-Origin. An empty value disables
// CORS headers.
func WithAllowOrigin(origin string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AllowOrigin = origin
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
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

func WithKnowledgeBase(kb *KnowledgeBase) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.KnowledgeBase = kb
	}
}
