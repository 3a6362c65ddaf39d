// Package geoidentify is the top-level entry point: it re-exports the pieces
// most callers need to put the GeoIdentify form in front of a prediction API.
package geoidentify

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-geoidentify/pkg/client"
	"github.com/goliatone/go-geoidentify/pkg/controller"
	"github.com/goliatone/go-geoidentify/pkg/orchestrator"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/renderers/html"
)

// RenderOptions describes per-request theme, action and asset overrides.
type RenderOptions = render.RenderOptions

// Backend is the features/predict contract the form talks to.
type Backend = controller.Backend

// NewClient builds an HTTP backend for a GeoIdentify API.
func NewClient(options ...client.Option) (*client.HTTPClient, error) {
	return client.New(options...)
}

// NewController exposes the controller constructor from the top-level module.
func NewController(backend Backend, options ...controller.Option) *controller.Controller {
	return controller.New(backend, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the taxonomy from backend, checks selected and, when
// selected is not empty, analyzes it. The page is rendered with the html
// renderer.
func GenerateHTML(ctx context.Context, backend Backend, selected []string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(append([]orchestrator.Option{orchestrator.WithBackend(backend)}, options...)...)
	result, err := gen.Generate(ctx, orchestrator.Request{
		Selected: selected,
		Analyze:  len(selected) > 0,
		Renderer: html.Name,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// EmbeddedTemplates exposes the built-in html templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the theme stylesheet bundle.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(geoidentify.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
