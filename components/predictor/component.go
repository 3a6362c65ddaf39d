package predictor

import "net/http"

// Component wraps the predictor handlers, their configuration and routing
// helpers.
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

// Handler returns a handler serving every predictor route from the root.
func (c *Component) Handler() http.Handler {
	mux := http.NewServeMux()
	_, _ = RegisterRoutesWithOptions(mux, "", c.Options())
	return mux
}

// RegisterRoutes registers the component handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}

// Scorer returns a scorer over the configured knowledge base.
func (c *Component) Scorer() (*Scorer, error) {
	opts := c.Options()
	kb, err := knowledgeBase(opts)
	if err != nil {
		return nil, err
	}
	return NewScorer(kb, opts.TopN), nil
}
