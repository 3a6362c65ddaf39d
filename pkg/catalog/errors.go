package catalog

import "errors"

var (
	// ErrMalformedResponse reports a payload that is not valid JSON or does not
	// match the expected shape.
	ErrMalformedResponse = errors.New("catalog: malformed response")
	// ErrDuplicateFeature reports a taxonomy that lists the same feature id
	// more than once. Ids are used as a flat lookup key across categories.
	ErrDuplicateFeature = errors.New("catalog: duplicate feature id")
)
