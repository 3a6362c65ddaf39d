package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-geoidentify/components/predictor"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		kb   string
		topN int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API (GET /features, POST /predict)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("kb") {
				cfg.Model.KnowledgeBase = kb
			}
			if cmd.Flags().Changed("top") {
				cfg.Model.TopN = topN
			}

			logger := newLogger()
			knowledge, err := loadKnowledgeBase(cfg.Model.KnowledgeBase)
			if err != nil {
				return err
			}
			logger.Printf("knowledge base: %d countries, %d features",
				len(knowledge.Countries()), knowledge.Taxonomy().FeatureCount())

			router := newRouter()
			api := predictor.New(
				predictor.WithKnowledgeBase(knowledge),
				predictor.WithTopN(cfg.Model.TopN),
				predictor.WithLogger(logger),
			)
			if _, err := api.RegisterRoutes(router, "/"); err != nil {
				return err
			}
			return listen(cfg.Server.Addr, router, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&kb, "kb", "", "knowledge base YAML (embedded when empty)")
	cmd.Flags().IntVar(&topN, "top", 0, "number of ranked countries returned")
	return cmd
}
