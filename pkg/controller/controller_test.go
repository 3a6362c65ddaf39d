package controller_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/client"
	"github.com/goliatone/go-geoidentify/pkg/controller"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/testsupport"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

type stubBackend struct {
	mu          sync.Mutex
	taxonomy    catalog.Taxonomy
	featuresErr error
	prediction  catalog.Prediction
	predictErr  error
	predictHook func()
	calls       [][]string
}

func (s *stubBackend) Features(context.Context) (catalog.Taxonomy, error) {
	if s.featuresErr != nil {
		return catalog.Taxonomy{}, s.featuresErr
	}
	return s.taxonomy, nil
}

func (s *stubBackend) Predict(_ context.Context, selected []string) (catalog.Prediction, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), selected...))
	s.mu.Unlock()
	if s.predictHook != nil {
		s.predictHook()
	}
	if s.predictErr != nil {
		return catalog.Prediction{}, s.predictErr
	}
	return s.prediction, nil
}

type recordingPresenter struct {
	mu    sync.Mutex
	pages []view.Page
}

func (r *recordingPresenter) Present(_ context.Context, page view.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, page)
	return nil
}

func (r *recordingPresenter) last(t *testing.T) view.Page {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pages) == 0 {
		t.Fatalf("no page presented")
	}
	return r.pages[len(r.pages)-1]
}

func (r *recordingPresenter) states() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.pages))
	for _, page := range r.pages {
		out = append(out, page.State)
	}
	return out
}

func newController(t *testing.T, backend *stubBackend) (*controller.Controller, *recordingPresenter) {
	t.Helper()
	presenter := &recordingPresenter{}
	return controller.New(backend, controller.WithPresenter(presenter)), presenter
}

func TestLoadFeatures_BuildsGroupsAndCheckboxes(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t)}
	ctrl, presenter := newController(t, backend)

	if got := ctrl.State(); got != controller.StateIdle {
		t.Fatalf("expected idle, got %s", got)
	}
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}

	page := presenter.last(t)
	if len(page.Form.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(page.Form.Groups))
	}
	if page.Form.CheckboxCount() != 3 {
		t.Fatalf("expected 3 checkboxes, got %d", page.Form.CheckboxCount())
	}
	if page.Form.Groups[0].Name != "Geografia" || page.Form.Groups[0].Checkboxes[0].ID != "coast" {
		t.Fatalf("unexpected first group %+v", page.Form.Groups[0])
	}
	if diff := cmp.Diff([]string{"loading-features", "ready"}, presenter.states()); diff != "" {
		t.Fatalf("state sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFeatures_FailureKeepsPriorForm(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t)}
	ctrl, presenter := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}

	backend.featuresErr = errors.New("connection refused")
	if err := ctrl.LoadFeatures(testsupport.Context()); err == nil {
		t.Fatalf("expected load error")
	}

	page := presenter.last(t)
	if page.Error != "Erro ao carregar características." {
		t.Fatalf("unexpected error message %q", page.Error)
	}
	if page.Form.CheckboxCount() != 3 {
		t.Fatalf("expected prior form to remain, got %d checkboxes", page.Form.CheckboxCount())
	}
	if ctrl.State() != controller.StateError {
		t.Fatalf("expected error state, got %s", ctrl.State())
	}
}

func TestLoadFeatures_InitialFailureLeavesEmptyForm(t *testing.T) {
	backend := &stubBackend{featuresErr: catalog.ErrMalformedResponse}
	ctrl, presenter := newController(t, backend)

	if err := ctrl.LoadFeatures(testsupport.Context()); !errors.Is(err, catalog.ErrMalformedResponse) {
		t.Fatalf("expected malformed error, got %v", err)
	}
	page := presenter.last(t)
	if page.Form.CheckboxCount() != 0 || page.State != "error" {
		t.Fatalf("unexpected page %+v", page)
	}

	backend.featuresErr = nil
	backend.taxonomy = testsupport.SampleTaxonomy(t)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("retry load: %v", err)
	}
	if page := presenter.last(t); page.Error != "" || page.State != "ready" {
		t.Fatalf("expected clean ready page after retry, got %+v", page)
	}
}

func TestAnalyze_EmptySelectionNeverCallsBackend(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t)}
	ctrl, presenter := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}

	err := ctrl.Analyze(testsupport.Context())
	if !errors.Is(err, controller.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("expected no backend calls, got %d", len(backend.calls))
	}
	page := presenter.last(t)
	if page.Error != "Selecione pelo menos uma característica antes de analisar." {
		t.Fatalf("unexpected message %q", page.Error)
	}
	if page.Trigger.Disabled || page.Trigger.Label != "Analisar" {
		t.Fatalf("unexpected trigger %+v", page.Trigger)
	}
}

func TestAnalyze_SuccessRendersResults(t *testing.T) {
	taxonomy, err := catalog.DecodeTaxonomy([]byte(`{"categories":{"Geo":[{"id":"f1","label":"Coastal"}]}}`))
	if err != nil {
		t.Fatalf("decode taxonomy: %v", err)
	}
	prediction, err := catalog.DecodePrediction([]byte(`{"top_countries":[{"country":"Chile","probability":0.42,"score":1.236}],"top_country_explanation":{"f1":0.5}}`))
	if err != nil {
		t.Fatalf("decode prediction: %v", err)
	}
	backend := &stubBackend{taxonomy: taxonomy, prediction: prediction}
	ctrl, presenter := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}

	ctrl.Check("f1", "unknown")
	if diff := cmp.Diff([]string{"f1"}, ctrl.CollectSelection()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if err := ctrl.Analyze(testsupport.Context()); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	page := presenter.last(t)
	if page.Results == nil {
		t.Fatalf("expected results")
	}
	want := view.Results{
		Table: view.Table{
			Headers: []string{"País", "Probabilidade (%)", "Score interno"},
			Rows:    []view.Row{{Country: "Chile", Probability: "42.0%", Score: "1.24"}},
		},
		Evidence: []view.Evidence{{FeatureID: "f1", Text: "Coastal (peso 0.50)"}},
	}
	if diff := cmp.Diff(want, *page.Results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if page.Trigger.Disabled || page.Trigger.Label != "Analisar" {
		t.Fatalf("trigger not restored: %+v", page.Trigger)
	}
	if diff := cmp.Diff([][]string{{"f1"}}, backend.calls); diff != "" {
		t.Fatalf("backend calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_TriggerDisabledWhileRunning(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t), prediction: testsupport.SamplePrediction(t)}
	ctrl, presenter := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}
	ctrl.Check("coast")

	var during view.Page
	var busyErr error
	backend.predictHook = func() {
		during = ctrl.Page()
		busyErr = ctrl.Analyze(testsupport.Context())
	}
	if err := ctrl.Analyze(testsupport.Context()); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if !during.Trigger.Disabled || during.Trigger.Label != "Analisando..." || during.State != "analyzing" {
		t.Fatalf("unexpected in-flight page %+v", during)
	}
	if !errors.Is(busyErr, controller.ErrBusy) {
		t.Fatalf("expected ErrBusy for overlapping analyze, got %v", busyErr)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("expected one backend call, got %d", len(backend.calls))
	}
	if diff := cmp.Diff([]string{"loading-features", "ready", "analyzing", "ready"}, presenter.states()); diff != "" {
		t.Fatalf("state sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "detail", err: &client.APIError{Operation: "predict", Status: 400, Detail: "bad input"}, want: "bad input"},
		{name: "no detail", err: &client.APIError{Operation: "predict", Status: 500}, want: "Erro na análise."},
		{name: "malformed", err: catalog.ErrMalformedResponse, want: "Erro ao processar a consulta."},
		{name: "transport", err: errors.New("connection reset"), want: "connection reset"},
		{name: "blank", err: errors.New("  "), want: "Erro ao processar a consulta."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t), predictErr: tc.err}
			ctrl, presenter := newController(t, backend)
			if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
				t.Fatalf("load features: %v", err)
			}
			ctrl.Check("samba")

			if err := ctrl.Analyze(testsupport.Context()); !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			page := presenter.last(t)
			if page.Error != tc.want {
				t.Fatalf("error message = %q, want %q", page.Error, tc.want)
			}
			if page.Results != nil {
				t.Fatalf("expected results to be cleared")
			}
			if page.Trigger.Disabled || page.Trigger.Label != "Analisar" {
				t.Fatalf("trigger not restored: %+v", page.Trigger)
			}
		})
	}
}

func TestAnalyze_ReplacesPreviousResults(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t), prediction: testsupport.SamplePrediction(t)}
	ctrl, presenter := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}
	ctrl.SetSelection([]string{"samba", "coast"})
	if err := ctrl.Analyze(testsupport.Context()); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got := len(presenter.last(t).Results.Table.Rows); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}

	backend.prediction = catalog.Prediction{
		TopCountries: []catalog.CountryScore{{Country: "Peru", Probability: 1, Score: 2}},
	}
	if err := ctrl.Analyze(testsupport.Context()); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	results := presenter.last(t).Results
	if len(results.Table.Rows) != 1 || results.Table.Rows[0].Country != "Peru" {
		t.Fatalf("expected replaced rows, got %+v", results.Table.Rows)
	}
	if len(results.Evidence) != 1 || !results.Evidence[0].Placeholder {
		t.Fatalf("expected placeholder evidence, got %+v", results.Evidence)
	}
	if diff := cmp.Diff([]string{"coast", "samba"}, backend.calls[0]); diff != "" {
		t.Fatalf("selection must follow taxonomy order (-want +got):\n%s", diff)
	}
}

func TestSelectionMutators(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t)}
	ctrl, _ := newController(t, backend)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}

	if !ctrl.Toggle("mountains") {
		t.Fatalf("expected toggle to check")
	}
	if ctrl.Toggle("missing") {
		t.Fatalf("unknown id must not toggle")
	}
	ctrl.Check("samba")
	ctrl.Uncheck("mountains")
	if diff := cmp.Diff([]string{"samba"}, ctrl.CollectSelection()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := ctrl.CollectSelection(); len(got) != 0 {
		t.Fatalf("reload must reset checkboxes, got %v", got)
	}
}

func TestLocaleAndNilBackend(t *testing.T) {
	backend := &stubBackend{taxonomy: testsupport.SampleTaxonomy(t)}
	presenter := &recordingPresenter{}
	ctrl := controller.New(backend,
		controller.WithPresenter(presenter),
		controller.WithLocale(render.EnglishLocale),
	)
	if err := ctrl.LoadFeatures(testsupport.Context()); err != nil {
		t.Fatalf("load features: %v", err)
	}
	_ = ctrl.Analyze(testsupport.Context())
	if got := presenter.last(t).Error; got != "Select at least one feature before analyzing." {
		t.Fatalf("unexpected english message %q", got)
	}

	if err := controller.New(nil).Analyze(testsupport.Context()); !errors.Is(err, controller.ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}
