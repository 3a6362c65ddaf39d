package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ConfirmConfig describes a yes/no question.
type ConfirmConfig struct {
	Message string
	Default bool
}

// SelectConfig describes one category's checkbox list. Defaults holds the
// positions of pre-checked options.
type SelectConfig struct {
	Message  string
	Options  []string
	Defaults []int
	Help     string
	PageSize int
}

// PromptDriver is the terminal seam used by Session. Tests replace it with a
// scripted driver.
type PromptDriver interface {
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver prompts on the controlling terminal. Info lines go to out,
// or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var yes bool
	err := ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default}, &yes)
	return yes, err
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: cfg.PageSize,
	}
	var checked []string
	for _, i := range cfg.Defaults {
		if i >= 0 && i < len(cfg.Options) {
			checked = append(checked, cfg.Options[i])
		}
	}
	if len(checked) > 0 {
		prompt.Default = checked
	}

	var answers []string
	if err := ask(ctx, prompt, &answers); err != nil {
		return nil, err
	}
	return indicesOf(cfg.Options, answers), nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one survey prompt. Ctrl-C surfaces as ErrAborted.
func ask(ctx context.Context, prompt survey.Prompt, answer any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, answer)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// indicesOf maps answers back to option positions. Labels may repeat across
// features, so each answer takes the first unused matching option.
func indicesOf(options, answers []string) []int {
	pending := make(map[string]int, len(answers))
	for _, a := range answers {
		pending[a]++
	}
	var out []int
	for i, option := range options {
		if pending[option] > 0 {
			pending[option]--
			out = append(out, i)
		}
	}
	return out
}
