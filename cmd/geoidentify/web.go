package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-geoidentify/components/webui"
	"github.com/goliatone/go-geoidentify/pkg/orchestrator"
	"github.com/goliatone/go-geoidentify/pkg/renderers/html"
)

func webCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		apiBase string
		tplDir  string
	)
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the HTML form against a prediction API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.WebAddr = addr
			}
			if cmd.Flags().Changed("api") {
				cfg.API.BaseURL = apiBase
			}

			logger := newLogger()
			backend, err := newBackend(cfg.API, logger)
			if err != nil {
				return err
			}
			orch := orchestrator.New(
				orchestrator.WithBackend(backend),
				orchestrator.WithLogger(logger),
				orchestrator.WithHTMLOptions(
					html.WithTemplatesDir(tplDir),
					html.WithTheme(cfg.UI.Theme, cfg.UI.ThemeVariant),
				),
			)
			ui, err := webui.New(
				webui.WithOrchestrator(orch),
				webui.WithTheme(cfg.UI.Theme, cfg.UI.ThemeVariant),
				webui.WithLogger(logger),
			).Handler()
			if err != nil {
				return err
			}

			router := newRouter()
			router.Mount("/", ui)
			logger.Printf("backend: %s", backend.BaseURL())
			return listen(cfg.Server.WebAddr, router, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&apiBase, "api", "", "prediction API base URL")
	cmd.Flags().StringVar(&tplDir, "templates", "", "directory overriding the embedded templates")
	return cmd
}
