// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pub-reputation/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reputation reports over HTTP",
	Long: `Serve exposes the engine over HTTP:

  GET  /api/reputation/{pmid}   five-facet report
  POST /api/search              {"query": "..."} -> matching articles
  GET  /api/articles/{pmid}     title and abstract
  GET  /healthz                 liveness

The server shuts down gracefully on interrupt.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:5000)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	engine, pm, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	return server.Serve(ctx, cfg.Server, server.NewRouter(engine, pm, logger), logger)
}
