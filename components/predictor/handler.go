package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/goliatone/go-geoidentify/pkg/contract"
)

const messageInvalidBody = "Corpo da requisição inválido."

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type predictRequest struct {
	SelectedFeatures []string `json:"selected_features"`
}

// FeaturesHandler serves the knowledge base taxonomy.
func FeaturesHandler(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !prepare(w, r, opts, http.MethodGet, http.MethodHead) {
			return
		}
		kb, err := knowledgeBase(opts)
		if err != nil {
			opts.Logger.Printf("predictor: load knowledge base: %v", err)
			writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
			return
		}
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, kb.Taxonomy())
	})
}

// PredictHandler ranks countries for the posted selection.
func PredictHandler(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !prepare(w, r, opts, http.MethodPost) {
			return
		}
		kb, err := knowledgeBase(opts)
		if err != nil {
			opts.Logger.Printf("predictor: load knowledge base: %v", err)
			writeError(w, StatusError{Code: http.StatusInternalServerError, Err: err})
			return
		}
		req, err := decodePredictRequest(r, opts)
		if err != nil {
			opts.Logger.Printf("predictor: reject request: %v", err)
			writeError(w, err)
			return
		}
		prediction, err := NewScorer(kb, opts.TopN).Predict(req.SelectedFeatures)
		if err != nil {
			writeError(w, err)
			return
		}
		opts.Logger.Printf("predictor: %d feature(s) -> %s", len(req.SelectedFeatures), prediction.TopCountries[0].Country)
		writeJSON(w, http.StatusOK, prediction)
	})
}

// OpenAPIHandler serves the embedded contract document.
func OpenAPIHandler(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	doc := contract.Document()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !prepare(w, r, opts, http.MethodGet, http.MethodHead) {
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(doc)
	})
}

// prepare applies CORS headers, answers preflight requests, enforces the
// method list and runs the guard. It reports whether the caller should go on.
func prepare(w http.ResponseWriter, r *http.Request, opts Options, methods ...string) bool {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	allow := strings.Join(methods, ", ")
	if opts.AllowOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", opts.AllowOrigin)
	}
	if r.Method == http.MethodOptions {
		if opts.AllowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Methods", allow+", "+http.MethodOptions)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}
		w.WriteHeader(http.StatusNoContent)
		return false
	}
	if !slices.Contains(methods, r.Method) {
		w.Header().Set("Allow", allow)
		writeError(w, StatusError{Code: http.StatusMethodNotAllowed})
		return false
	}
	if opts.Guard != nil {
		if err := opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return false
		}
	}
	return true
}

func decodePredictRequest(r *http.Request, opts Options) (predictRequest, error) {
	var req predictRequest
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return req, StatusError{Code: http.StatusBadRequest, Err: err}
	}
	ct, err := contract.Default()
	if err != nil {
		return req, StatusError{Code: http.StatusInternalServerError, Err: err}
	}
	if err := ct.ValidatePredictRequest(body); err != nil {
		return req, StatusError{Code: http.StatusUnprocessableEntity, Err: fmt.Errorf("%s: %w", messageInvalidBody, err)}
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, StatusError{Code: http.StatusUnprocessableEntity, Err: fmt.Errorf("%s: %w", messageInvalidBody, err)}
	}
	return req, nil
}

func knowledgeBase(opts Options) (*KnowledgeBase, error) {
	if opts.KnowledgeBase != nil {
		return opts.KnowledgeBase, nil
	}
	return DefaultKnowledgeBase()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	detail := http.StatusText(code)
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}
	writeJSON(w, code, errorResponse{Detail: detail})
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	writeJSON(w, code, errorResponse{Detail: http.StatusText(code)})
}
