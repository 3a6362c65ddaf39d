// Package tui adapts the form controller to a terminal: one survey
// multi-select per category, results printed with tablewriter.
package tui

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-geoidentify/pkg/controller"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Session runs the load, select, analyze, print loop against a backend.
type Session struct {
	driver     PromptDriver
	out        io.Writer
	theme      Theme
	translator render.Translator
	locale     string
	logger     *log.Logger
	pageSize   int

	controller *controller.Controller
	text       *TextRenderer
}

var _ controller.Presenter = (*Session)(nil)

// NewSession wires a controller to backend with the session as presenter.
func NewSession(backend controller.Backend, options ...Option) *Session {
	s := &Session{
		out:        os.Stdout,
		theme:      DefaultTheme(),
		translator: render.NewCatalog(),
		locale:     render.DefaultLocale,
		logger:     log.New(io.Discard, "", 0),
		pageSize:   15,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}

	s.text = NewTextRenderer(s.translator, s.theme)
	s.controller = controller.New(backend,
		controller.WithPresenter(s),
		controller.WithTranslator(s.translator),
		controller.WithLocale(s.locale),
		controller.WithLogger(s.logger),
	)
	return s
}

// Controller exposes the underlying controller.
func (s *Session) Controller() *controller.Controller {
	return s.controller
}

// Run loads the taxonomy once, then loops selection and analysis until the
// user declines another round. Analysis failures are shown and the loop
// continues; a failed load or an aborted prompt ends the session.
func (s *Session) Run(ctx context.Context) error {
	if err := s.controller.LoadFeatures(ctx); err != nil {
		return err
	}
	if s.controller.Taxonomy().FeatureCount() == 0 {
		if err := s.info(ctx, s.msg(render.KeyEmptyTaxonomy)); err != nil {
			return err
		}
		return ErrNoFeatures
	}

	for {
		if err := s.selectFeatures(ctx); err != nil {
			return err
		}

		err := s.controller.Analyze(ctx)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: s.msg(render.KeyActionAgain),
			Default: true,
		})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// Ask runs a single non-interactive round with the given selection.
func (s *Session) Ask(ctx context.Context, selected []string) error {
	if err := s.controller.LoadFeatures(ctx); err != nil {
		return err
	}
	s.controller.SetSelection(selected)
	return s.controller.Analyze(ctx)
}

func (s *Session) selectFeatures(ctx context.Context) error {
	page := s.controller.Page()
	var selected []string
	for _, group := range page.Form.Groups {
		if len(group.Checkboxes) == 0 {
			continue
		}
		options := make([]string, 0, len(group.Checkboxes))
		var defaults []int
		for i, box := range group.Checkboxes {
			options = append(options, box.Label)
			if box.Checked {
				defaults = append(defaults, i)
			}
		}

		picked, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  render.Text(s.translator, s.locale, render.KeySelectionPrompt, group.Name),
			Options:  options,
			Defaults: defaults,
			Help:     s.msg(render.KeySelectionHelp),
			PageSize: s.pageSize,
		})
		if err != nil {
			return err
		}
		for _, idx := range picked {
			if idx >= 0 && idx < len(group.Checkboxes) {
				selected = append(selected, group.Checkboxes[idx].ID)
			}
		}
	}
	s.controller.SetSelection(selected)
	return nil
}

// Present implements controller.Presenter.
func (s *Session) Present(ctx context.Context, page view.Page) error {
	switch page.State {
	case controller.StateLoadingFeatures.String():
		return s.info(ctx, s.msg(render.KeyLoadingFeatures))
	case controller.StateAnalyzing.String():
		return s.info(ctx, page.Trigger.Label)
	case controller.StateError.String():
		return s.info(ctx, s.text.ErrorLine(page.Error))
	}
	if page.Results != nil {
		return s.info(ctx, s.text.Results(page.Locale, *page.Results))
	}
	return nil
}

func (s *Session) info(ctx context.Context, msg string) error {
	if s.theme.InfoPrefix != "" {
		msg = s.theme.InfoPrefix + msg
	}
	if err := s.driver.Info(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Session) msg(key string) string {
	return render.Text(s.translator, s.locale, key)
}
