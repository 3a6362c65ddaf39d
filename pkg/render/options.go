package render

import "context"

// RenderOptions describe per-request data that renderers can use to customise
// their output without changing the Page itself.
type RenderOptions struct {
	// Theme and Variant select a registered theme. Empty values fall back to
	// the renderer defaults.
	Theme   string
	Variant string
	// Action is the URL the analyze form posts to. HTML only.
	Action string
	// AssetBase prefixes stylesheet and script URLs.
	AssetBase string
	// RequestID is echoed in the output for correlation with backend logs.
	RequestID string
}

type optionsKey struct{}

// WithOptions attaches opts to ctx for the next Render call.
func WithOptions(ctx context.Context, opts RenderOptions) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// OptionsFromContext returns the options attached by WithOptions, or the zero
// value.
func OptionsFromContext(ctx context.Context) RenderOptions {
	if ctx == nil {
		return RenderOptions{}
	}
	opts, _ := ctx.Value(optionsKey{}).(RenderOptions)
	return opts
}
