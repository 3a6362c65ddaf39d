package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-geoidentify/pkg/orchestrator"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/renderers/tui"
)

func askCmd(flags *globalFlags) *cobra.Command {
	var (
		apiBase  string
		locale   string
		selected []string
		renderer string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Pick features in the terminal and print the ranking",
		Long: `Without --select, ask prompts for features category by category and
repeats until you decline. With --select, it submits the given feature ids once
and prints the page with the chosen renderer (text or html).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api") {
				cfg.API.BaseURL = apiBase
			}
			if cmd.Flags().Changed("locale") {
				cfg.UI.Locale = locale
			}
			lang := render.MatchLocale(cfg.UI.Locale)

			logger := newLogger()
			backend, err := newBackend(cfg.API, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if len(selected) == 0 {
				session := tui.NewSession(backend,
					tui.WithOutput(cmd.OutOrStdout()),
					tui.WithLocale(lang),
					tui.WithLogger(logger),
				)
				err := session.Run(ctx)
				if errors.Is(err, tui.ErrAborted) {
					return nil
				}
				return err
			}

			orch := orchestrator.New(
				orchestrator.WithBackend(backend),
				orchestrator.WithLogger(logger),
			)
			result, err := orch.Generate(ctx, orchestrator.Request{
				Locale:   lang,
				Selected: selected,
				Analyze:  true,
				Renderer: renderer,
				RenderOptions: render.RenderOptions{
					Theme:   cfg.UI.Theme,
					Variant: cfg.UI.ThemeVariant,
				},
			})
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, result.Body, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Page written to %s\n", output)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), string(result.Body))
			}
			if result.Page.Error != "" {
				return errors.New(result.Page.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiBase, "api", "", "prediction API base URL")
	cmd.Flags().StringVar(&locale, "locale", "", "message locale (pt-BR, en)")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "feature ids to submit without prompting")
	cmd.Flags().StringVar(&renderer, "renderer", tui.TextName, "renderer for --select output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
