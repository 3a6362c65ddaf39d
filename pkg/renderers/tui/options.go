package tui

import (
	"io"
	"log"

	"github.com/goliatone/go-geoidentify/pkg/render"
)

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme prefixes errors so they stand out in plain terminals.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "! "}
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where the survey driver prints. Ignored when a custom
// driver is supplied.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		if out != nil {
			s.out = out
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithTranslator overrides the message catalog.
func WithTranslator(t render.Translator) Option {
	return func(s *Session) {
		if t != nil {
			s.translator = t
		}
	}
}

// WithLocale selects the message locale.
func WithLocale(locale string) Option {
	return func(s *Session) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithLogger routes controller diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageSize limits how many options survey shows at once.
func WithPageSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}
