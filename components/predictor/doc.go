// Package predictor is the GeoIdentify prediction API: it serves the feature
// taxonomy of a YAML knowledge base and ranks countries for a selection of
// features.
//
// Usage (net/http):
//
//	mux := http.NewServeMux()
//	_, _ = predictor.RegisterRoutes(mux, "/", predictor.WithTopN(5))
//
// Routes:
//   - GET /features returns {"categories": {name: [{id, label}]}} in
//     knowledge base order.
//   - POST /predict accepts {"selected_features": [...]} and returns the
//     ranked countries plus top_country_explanation.
//   - GET /openapi.yaml returns the contract document.
//
// Errors are JSON bodies of the form {"detail": "..."}.
package predictor
