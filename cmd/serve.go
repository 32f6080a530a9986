/*
Copyright © 2026 NAME HERE
*/
package cmd

import (
	"log"
	"net/http"

	"github.com/masnyjimmy/campaign-validator/src/config"
	"github.com/masnyjimmy/campaign-validator/src/runner"
	"github.com/masnyjimmy/campaign-validator/src/server"
	"github.com/spf13/cobra"
)

// ==================== Cobra Command ====================

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest validation report and rerun on changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			log.Fatal(err)
		}

		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}

		Serve(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP(
		"listen",
		"l",
		config.DEFAULT_LISTEN_ADDRESS,
		"Address to serve the report on",
	)
}

func Serve(cmd *cobra.Command, cfg config.Config) {
	opt := server.DefaultOptions()
	opt.AllowedOrigins = cfg.AllowedOrigins

	reportServer := server.New(opt)

	setReport := func(report *runner.Report) {
		if err := reportServer.SetReport(report); err != nil {
			errorLogger.Printf("Unable to update report: %v", err)
		}
	}

	go func() {
		if err := Watch(cmd.OutOrStdout(), cfg, setReport); err != nil {
			errorLogger.Printf("Unable to watch for changes: %v", err)
		}
	}()

	log.Printf("Started server at http://localhost%v", cfg.Listen)
	log.Fatal(http.ListenAndServe(cfg.Listen, reportServer.Handler()))
}
