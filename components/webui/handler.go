package webui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-geoidentify/pkg/orchestrator"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/renderers/html"
)

var ErrMissingOrchestrator = errors.New("webui: missing orchestrator")

// IndexHandler renders the empty form.
func IndexHandler(opts Options, basePath string) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	index := mountPath(basePath, opts.IndexPath)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != index {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		servePage(w, r, opts, basePath, orchestrator.Request{})
	})
}

// AnalyzeHandler submits the posted selection and renders the outcome.
func AnalyzeHandler(opts Options, basePath string) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		servePage(w, r, opts, basePath, orchestrator.Request{
			Selected: r.PostForm[opts.FieldName],
			Analyze:  true,
		})
	})
}

// AssetsHandler serves the embedded theme assets below prefix.
func AssetsHandler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServerFS(html.AssetsFS()))
}

func servePage(w http.ResponseWriter, r *http.Request, opts Options, basePath string, req orchestrator.Request) {
	if opts.Orchestrator == nil {
		opts.Logger.Printf("webui: %v", ErrMissingOrchestrator)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	req.Locale = requestLocale(r, opts)
	req.Renderer = html.Name
	req.RenderOptions = render.RenderOptions{
		Theme:     opts.Theme,
		Variant:   opts.Variant,
		Action:    mountPath(basePath, opts.AnalyzePath),
		RequestID: opts.RequestID(r),
	}
	if opts.AssetsPath != "" {
		req.RenderOptions.AssetBase = strings.TrimRight(mountPath(basePath, opts.AssetsPath), "/")
	}

	result, err := opts.Orchestrator.Generate(r.Context(), req)
	if err != nil {
		opts.Logger.Printf("webui: render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Language", result.Page.Locale)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(result.Body)
}

func requestLocale(r *http.Request, opts Options) string {
	var prefs []string
	if opts.LocaleParam != "" {
		if lang := strings.TrimSpace(r.URL.Query().Get(opts.LocaleParam)); lang != "" {
			prefs = append(prefs, lang)
		}
	}
	prefs = append(prefs, r.Header.Get("Accept-Language"))
	return render.MatchLocale(prefs...)
}
