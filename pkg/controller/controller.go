package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/goliatone/go-geoidentify/pkg/catalog"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Controller drives one feature-selection form. It is safe for concurrent
// use; backend calls run without the lock held.
type Controller struct {
	backend    Backend
	presenter  Presenter
	translator render.Translator
	locale     string
	logger     *log.Logger

	mu        sync.Mutex
	taxonomy  catalog.Taxonomy
	labels    catalog.FeatureMeta
	loaded    bool
	checked   map[string]bool
	results   *view.Results
	errMsg    string
	loading   bool
	analyzing bool
}

// New builds a controller around backend.
func New(backend Backend, options ...Option) *Controller {
	c := &Controller{
		backend:    backend,
		translator: render.NewCatalog(),
		locale:     render.DefaultLocale,
		logger:     discardLogger(),
		labels:     catalog.FeatureMeta{},
		checked:    make(map[string]bool),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Locale reports the locale used for messages.
func (c *Controller) Locale() string {
	return c.locale
}

// State reports the current lifecycle position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Page returns the current screen description.
func (c *Controller) Page() view.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLocked()
}

// Taxonomy returns the last successfully loaded taxonomy.
func (c *Controller) Taxonomy() catalog.Taxonomy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taxonomy
}

// LoadFeatures fetches the taxonomy and rebuilds the form and the label
// lookup. On failure the previous form stays in place and the load error
// message is shown.
func (c *Controller) LoadFeatures(ctx context.Context) error {
	if c.backend == nil {
		return ErrNoBackend
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.loading = true
	page := c.pageLocked()
	c.mu.Unlock()
	c.present(ctx, page)

	taxonomy, err := c.backend.Features(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.errMsg = c.text(render.KeyErrorLoadFeatures)
		page = c.pageLocked()
		c.mu.Unlock()
		c.logger.Printf("controller: load features: %v", err)
		c.present(ctx, page)
		return err
	}

	c.taxonomy = taxonomy
	c.labels = taxonomy.Meta()
	c.checked = make(map[string]bool)
	c.loaded = true
	c.errMsg = ""
	page = c.pageLocked()
	c.mu.Unlock()

	c.present(ctx, page)
	return nil
}

// CollectSelection returns the checked ids in taxonomy order.
func (c *Controller) CollectSelection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionLocked()
}

// Check marks ids as selected. Unknown ids are ignored.
func (c *Controller) Check(ids ...string) {
	c.setChecked(true, ids)
}

// Uncheck clears ids from the selection. Unknown ids are ignored.
func (c *Controller) Uncheck(ids ...string) {
	c.setChecked(false, ids)
}

// SetSelection replaces the selection with ids.
func (c *Controller) SetSelection(ids []string) {
	c.mu.Lock()
	c.checked = make(map[string]bool)
	c.mu.Unlock()
	c.setChecked(true, ids)
}

// Toggle flips id and reports its new state.
func (c *Controller) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.labels[id]; !ok {
		return false
	}
	if c.checked[id] {
		delete(c.checked, id)
		return false
	}
	c.checked[id] = true
	return true
}

func (c *Controller) setChecked(value bool, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if _, ok := c.labels[id]; !ok {
			continue
		}
		if value {
			c.checked[id] = true
		} else {
			delete(c.checked, id)
		}
	}
}

// Analyze submits the current selection and renders the outcome. The trigger
// is disabled while the request runs and re-enabled on every exit path. The
// returned error is also shown on the page.
func (c *Controller) Analyze(ctx context.Context) (err error) {
	if c.backend == nil {
		return ErrNoBackend
	}

	c.mu.Lock()
	if c.analyzing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.errMsg = ""
	c.results = nil

	selection := c.selectionLocked()
	if len(selection) == 0 {
		c.errMsg = c.text(render.KeyErrorEmptySelect)
		page := c.pageLocked()
		c.mu.Unlock()
		c.present(ctx, page)
		return ErrEmptySelection
	}

	c.analyzing = true
	labels := c.labels
	page := c.pageLocked()
	c.mu.Unlock()
	c.present(ctx, page)

	defer func() {
		c.mu.Lock()
		c.analyzing = false
		if err == nil && c.results == nil && c.errMsg == "" {
			c.errMsg = c.text(render.KeyErrorQuery)
		}
		page := c.pageLocked()
		c.mu.Unlock()
		c.present(ctx, page)
	}()

	prediction, err := c.backend.Predict(ctx, selection)
	if err != nil {
		c.logger.Printf("controller: predict %d features: %v", len(selection), err)
		c.mu.Lock()
		c.errMsg = c.analysisMessage(err)
		c.mu.Unlock()
		return err
	}

	results := view.BuildResults(prediction, labels, render.ViewMessages(c.translator, c.locale))

	c.mu.Lock()
	c.results = &results
	c.mu.Unlock()
	return nil
}

func (c *Controller) analysisMessage(err error) string {
	var detailed DetailError
	if errors.As(err, &detailed) {
		if detail := strings.TrimSpace(detailed.DetailMessage()); detail != "" {
			return detail
		}
		return c.text(render.KeyErrorAnalysis)
	}
	if errors.Is(err, catalog.ErrMalformedResponse) {
		return c.text(render.KeyErrorQuery)
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return c.text(render.KeyErrorQuery)
}

func (c *Controller) selectionLocked() []string {
	if len(c.checked) == 0 {
		return nil
	}
	selection := make([]string, 0, len(c.checked))
	for _, id := range c.taxonomy.IDs() {
		if c.checked[id] {
			selection = append(selection, id)
		}
	}
	return selection
}

func (c *Controller) stateLocked() State {
	switch {
	case c.analyzing:
		return StateAnalyzing
	case c.loading:
		return StateLoadingFeatures
	case c.errMsg != "":
		return StateError
	case c.loaded:
		return StateReady
	default:
		return StateIdle
	}
}

func (c *Controller) pageLocked() view.Page {
	page := view.Page{
		Locale: c.locale,
		State:  c.stateLocked().String(),
		Form:   view.BuildForm(c.taxonomy, c.checked),
		Error:  c.errMsg,
		Trigger: view.Trigger{
			Label: c.text(render.KeyActionAnalyze),
		},
	}
	if c.analyzing {
		page.Trigger = view.Trigger{
			Label:    c.text(render.KeyActionAnalyzing),
			Disabled: true,
		}
	}
	if c.results != nil {
		results := *c.results
		page.Results = &results
	}
	return page
}

func (c *Controller) text(key string) string {
	return render.Text(c.translator, c.locale, key)
}

func (c *Controller) present(ctx context.Context, page view.Page) {
	if c.presenter == nil {
		return
	}
	if err := c.presenter.Present(ctx, page); err != nil {
		c.logger.Printf("controller: present %s page: %v", page.State, err)
	}
}

// String describes the controller for logs.
func (c *Controller) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("controller{state=%s features=%d checked=%d}", c.stateLocked(), c.taxonomy.FeatureCount(), len(c.checked))
}
