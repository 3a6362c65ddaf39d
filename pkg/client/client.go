// Package client talks to the prediction backend over HTTP. It implements the
// Backend seam consumed by the form controller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/contract"
	"github.com/goliatone/go-geoidentify/pkg/sanitize"
)

const maxBodyBytes = 4 << 20

// HTTPClient calls `/features` and `/predict` on a backend base address.
type HTTPClient struct {
	baseURL     string
	http        *http.Client
	logger      *log.Logger
	requestID   func() string
	contract    *contract.Contract
	contractSet bool
	sanitize    func(string) string
}

// New constructs a client. Without WithContract the embedded backend contract
// is used to validate success payloads.
func New(options ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:   DefaultBaseURL,
		http:      http.DefaultClient,
		logger:    discardLogger(),
		requestID: newRequestID,
		sanitize:  sanitize.Control,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base url %q: %w", c.baseURL, err)
	}
	if !c.contractSet {
		ct, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("client: load contract: %w", err)
		}
		c.contract = ct
	}
	return c, nil
}

// BaseURL reports the backend address the client targets.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Features fetches the feature taxonomy.
func (c *HTTPClient) Features(ctx context.Context) (catalog.Taxonomy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+contract.FeaturesPath, nil)
	if err != nil {
		return catalog.Taxonomy{}, fmt.Errorf("client: features: build request: %w", err)
	}

	body, err := c.do(req, "features")
	if err != nil {
		return catalog.Taxonomy{}, err
	}
	if c.contract != nil {
		if err := c.contract.ValidateFeatures(body); err != nil {
			return catalog.Taxonomy{}, fmt.Errorf("client: features: %w: %v", catalog.ErrMalformedResponse, err)
		}
	}

	taxonomy, err := catalog.DecodeTaxonomy(body)
	if err != nil {
		return catalog.Taxonomy{}, fmt.Errorf("client: features: %w", err)
	}
	c.cleanTaxonomy(&taxonomy)
	return taxonomy, nil
}

type predictRequest struct {
	SelectedFeatures []string `json:"selected_features"`
}

// Predict submits the selected feature ids as one JSON request.
func (c *HTTPClient) Predict(ctx context.Context, selected []string) (catalog.Prediction, error) {
	if selected == nil {
		selected = []string{}
	}
	payload, err := json.Marshal(predictRequest{SelectedFeatures: selected})
	if err != nil {
		return catalog.Prediction{}, fmt.Errorf("client: predict: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+contract.PredictPath, bytes.NewReader(payload))
	if err != nil {
		return catalog.Prediction{}, fmt.Errorf("client: predict: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "predict")
	if err != nil {
		return catalog.Prediction{}, err
	}
	if c.contract != nil {
		if err := c.contract.ValidatePrediction(body); err != nil {
			return catalog.Prediction{}, fmt.Errorf("client: predict: %w: %v", catalog.ErrMalformedResponse, err)
		}
	}

	prediction, err := catalog.DecodePrediction(body)
	if err != nil {
		return catalog.Prediction{}, fmt.Errorf("client: predict: %w", err)
	}
	for i := range prediction.TopCountries {
		prediction.TopCountries[i].Country = c.sanitize(prediction.TopCountries[i].Country)
	}
	return prediction, nil
}

func (c *HTTPClient) do(req *http.Request, operation string) ([]byte, error) {
	id := c.requestID()
	req.Header.Set("Accept", "application/json")
	if id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s request_id=%s: %v", req.Method, req.URL.Path, id, err)
		return nil, fmt.Errorf("client: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("client: %s: read body: %w", operation, err)
	}
	c.logger.Printf("%s %s request_id=%s status=%d bytes=%d", req.Method, req.URL.Path, id, resp.StatusCode, len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Operation: operation,
			Status:    resp.StatusCode,
			Detail:    c.sanitize(detailMessage(body)),
		}
	}
	return body, nil
}

// detailMessage extracts `detail` from an error body. Anything other than a
// JSON object with a string detail yields "".
func detailMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String {
		return ""
	}
	return detail.String()
}

func (c *HTTPClient) cleanTaxonomy(t *catalog.Taxonomy) {
	for i := range t.Categories {
		category := &t.Categories[i]
		category.Name = c.sanitize(category.Name)
		for j := range category.Features {
			category.Features[j].Label = c.sanitize(category.Features[j].Label)
		}
	}
}
