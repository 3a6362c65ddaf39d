package controller

import (
	"context"
	"io"
	"log"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Backend is the prediction service as seen by the controller.
type Backend interface {
	Features(ctx context.Context) (catalog.Taxonomy, error)
	Predict(ctx context.Context, selected []string) (catalog.Prediction, error)
}

// Presenter applies a page to a concrete toolkit.
type Presenter interface {
	Present(ctx context.Context, page view.Page) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, page view.Page) error

// Present implements Presenter.
func (f PresenterFunc) Present(ctx context.Context, page view.Page) error {
	return f(ctx, page)
}

// Option customises a Controller.
type Option func(*Controller)

// WithPresenter sets the presenter notified after each transition.
func WithPresenter(p Presenter) Option {
	return func(c *Controller) {
		c.presenter = p
	}
}

// WithTranslator overrides the message catalog.
func WithTranslator(t render.Translator) Option {
	return func(c *Controller) {
		if t != nil {
			c.translator = t
		}
	}
}

// WithLocale selects the locale used for every message.
func WithLocale(locale string) Option {
	return func(c *Controller) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithLogger routes diagnostics (presenter failures, backend errors).
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
