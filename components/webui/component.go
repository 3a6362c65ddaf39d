package webui

import "net/http"

// Component wraps the web UI handlers and their configuration.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a handler serving every route from the root.
func (c *Component) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := RegisterRoutesWithOptions(mux, "", c.Options()); err != nil {
		return nil, err
	}
	return mux, nil
}

// RegisterRoutes registers the component handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}
