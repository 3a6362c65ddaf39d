// Package contract embeds the OpenAPI description of the prediction backend
// and validates payloads against it. The client uses it to tell a malformed
// success response apart from a transport or application error; the predictor
// component serves the same document.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

const (
	// FeaturesPath is the taxonomy endpoint.
	FeaturesPath = "/features"
	// PredictPath is the prediction endpoint.
	PredictPath = "/predict"
)

// ErrSchemaNotFound is returned when the document lacks an expected operation
// or response.
var ErrSchemaNotFound = errors.New("contract: schema not found")

// Contract exposes response/request schemas resolved from an OpenAPI document.
type Contract struct {
	raw      []byte
	features *openapi3.Schema
	request  *openapi3.Schema
	predict  *openapi3.Schema
	failure  *openapi3.Schema
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default returns the contract built from the embedded document. The document
// is parsed once per process.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), document)
	})
	return defaultContract, defaultErr
}

// Document returns the embedded OpenAPI document (YAML).
func Document() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// Load parses and validates an OpenAPI document and resolves the schemas used
// by the GeoIdentify endpoints.
func Load(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil {
		return nil, fmt.Errorf("%w: document has no paths", ErrSchemaNotFound)
	}

	paths := doc.Paths.Map()
	c := &Contract{raw: raw}

	featuresItem := paths[FeaturesPath]
	if featuresItem == nil || featuresItem.Get == nil {
		return nil, fmt.Errorf("%w: GET %s", ErrSchemaNotFound, FeaturesPath)
	}
	if c.features, err = responseSchema(featuresItem.Get, http200); err != nil {
		return nil, fmt.Errorf("GET %s: %w", FeaturesPath, err)
	}

	predictItem := paths[PredictPath]
	if predictItem == nil || predictItem.Post == nil {
		return nil, fmt.Errorf("%w: POST %s", ErrSchemaNotFound, PredictPath)
	}
	if c.predict, err = responseSchema(predictItem.Post, http200); err != nil {
		return nil, fmt.Errorf("POST %s: %w", PredictPath, err)
	}
	if c.failure, err = responseSchema(predictItem.Post, statusBadRequest); err != nil {
		return nil, fmt.Errorf("POST %s: %w", PredictPath, err)
	}
	if body := predictItem.Post.RequestBody; body != nil && body.Value != nil {
		if mt, ok := body.Value.Content["application/json"]; ok && mt != nil && mt.Schema != nil {
			c.request = mt.Schema.Value
		}
	}
	if c.request == nil {
		return nil, fmt.Errorf("%w: POST %s request body", ErrSchemaNotFound, PredictPath)
	}
	return c, nil
}

const (
	http200          = "200"
	statusBadRequest = "400"
)

func responseSchema(operation *openapi3.Operation, status string) (*openapi3.Schema, error) {
	if operation.Responses == nil {
		return nil, fmt.Errorf("%w: no responses", ErrSchemaNotFound)
	}
	ref, ok := operation.Responses.Map()[status]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: status %s", ErrSchemaNotFound, status)
	}
	mt, ok := ref.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("%w: status %s has no JSON schema", ErrSchemaNotFound, status)
	}
	return mt.Schema.Value, nil
}

// Raw returns the document this contract was loaded from.
func (c *Contract) Raw() []byte {
	return c.raw
}

// ValidateFeatures checks a `/features` success body.
func (c *Contract) ValidateFeatures(body []byte) error {
	return validate(c.features, body)
}

// ValidatePrediction checks a `/predict` success body.
func (c *Contract) ValidatePrediction(body []byte) error {
	return validate(c.predict, body)
}

// ValidatePredictRequest checks a `/predict` request body.
func (c *Contract) ValidatePredictRequest(body []byte) error {
	return validate(c.request, body)
}

// ValidateError checks a `/predict` failure body.
func (c *Contract) ValidateError(body []byte) error {
	return validate(c.failure, body)
}

func validate(schema *openapi3.Schema, body []byte) error {
	if schema == nil {
		return ErrSchemaNotFound
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("contract: decode body: %w", err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("contract: %w", err)
	}
	return nil
}
