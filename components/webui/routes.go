package webui

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// Patterns follow *http.ServeMux prefix semantics; mount Component.Handler on
// routers with other conventions.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes registers the page and asset handlers under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("webui: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	if opts.Orchestrator == nil {
		return nil, ErrMissingOrchestrator
	}

	index := mountPath(basePath, opts.IndexPath)
	analyze := mountPath(basePath, opts.AnalyzePath)
	mux.Handle(index, IndexHandler(opts, basePath))
	mux.Handle(analyze, AnalyzeHandler(opts, basePath))
	patterns := []string{index, analyze}

	if opts.AssetsPath != "" {
		assets := mountPath(basePath, opts.AssetsPath)
		if !strings.HasSuffix(assets, "/") {
			assets += "/"
		}
		mux.Handle(assets, AssetsHandler(assets))
		patterns = append(patterns, assets)
	}
	return patterns, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
