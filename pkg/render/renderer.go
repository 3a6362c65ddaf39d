package render

import (
	"context"

	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Renderer converts a Page into a byte representation (HTML, plain text...).
// Interactive adapters that own a live toolkit implement Presenter-style
// hooks in their own packages; Renderer covers the one-shot outputs.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page view.Page) ([]byte, error)
}
