package predictor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/contract"
)

func newTestServer(t *testing.T, fns ...OptionFn) *httptest.Server {
	t.Helper()
	fns = append([]OptionFn{WithKnowledgeBase(testKB(t))}, fns...)
	srv := httptest.NewServer(New(fns...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestFeaturesHandler_ServesTaxonomy(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/features")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	ct, err := contract.Default()
	require.NoError(t, err)
	require.NoError(t, ct.ValidateFeatures(body))

	tax, err := catalog.DecodeTaxonomy(body)
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "f2", "f3"}, tax.IDs())
}

func TestPredictHandler_Success(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"selected_features":["f1","f2"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	ct, err := contract.Default()
	require.NoError(t, err)
	require.NoError(t, ct.ValidatePrediction(body))

	prediction, err := catalog.DecodePrediction(body)
	require.NoError(t, err)
	require.Len(t, prediction.TopCountries, 3)
	require.Equal(t, "Alfa", prediction.TopCountries[0].Country)
	require.Equal(t, catalog.Explanation{{FeatureID: "f1", Weight: 2}}, prediction.Explanation)
}

func TestPredictHandler_Errors(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{name: "empty selection", body: `{"selected_features":[]}`, status: http.StatusBadRequest, detail: MessageEmptySelection},
		{name: "no evidence", body: `{"selected_features":["f3"]}`, status: http.StatusUnprocessableEntity, detail: MessageNoEvidence},
		{name: "missing field", body: `{}`, status: http.StatusUnprocessableEntity, detail: messageInvalidBody},
		{name: "not json", body: `selected`, status: http.StatusUnprocessableEntity, detail: messageInvalidBody},
	}
	ct, err := contract.Default()
	require.NoError(t, err)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			var raw json.RawMessage
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
			require.NoError(t, ct.ValidateError(raw))

			var body errorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			require.True(t, strings.HasPrefix(body.Detail, tc.detail), "detail %q", body.Detail)
		})
	}
}

func TestHandlers_MethodsAndPreflight(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/predict")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Equal(t, http.MethodPost, resp.Header.Get("Allow"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/predict", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestHandlers_Guard(t *testing.T) {
	denied := StatusError{Code: http.StatusUnauthorized, Err: errors.New("nope")}
	srv := newTestServer(t, WithGuard(func(*http.Request) error { return denied }))

	resp, err := http.Get(srv.URL + "/features")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOpenAPIHandler_ServesContract(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
}

func TestRegisterRoutes_JoinsBasePath(t *testing.T) {
	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux, "/api/", WithKnowledgeBase(testKB(t)), WithOpenAPIPath(""))
	require.NoError(t, err)
	require.Equal(t, []string{"/api/features", "/api/predict"}, patterns)
	require.Equal(t, patterns, MountPaths("api", WithOpenAPIPath("")))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/features", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = RegisterRoutes(nil, "/")
	require.Error(t, err)
}
