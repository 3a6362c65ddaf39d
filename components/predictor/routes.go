package predictor

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPaths returns the full mount paths of the component routes under
// basePath, in features, predict, openapi order.
func MountPaths(basePath string, fns ...OptionFn) []string {
	opts := NewOptions(fns...)
	paths := []string{
		mountPath(basePath, opts.FeaturesPath),
		mountPath(basePath, opts.PredictPath),
	}
	if opts.OpenAPIPath != "" {
		paths = append(paths, mountPath(basePath, opts.OpenAPIPath))
	}
	return paths
}

// RegisterRoutes registers the predictor handlers under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers the handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("predictor: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	routes := []struct {
		path    string
		handler http.Handler
	}{
		{opts.FeaturesPath, FeaturesHandler(opts)},
		{opts.PredictPath, PredictHandler(opts)},
	}
	if opts.OpenAPIPath != "" {
		routes = append(routes, struct {
			path    string
			handler http.Handler
		}{opts.OpenAPIPath, OpenAPIHandler(opts)})
	}

	patterns := make([]string, 0, len(routes))
	for _, route := range routes {
		pattern := mountPath(basePath, route.path)
		mux.Handle(pattern, route.handler)
		patterns = append(patterns, pattern)
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
