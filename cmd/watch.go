/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"
	"log"

	"github.com/masnyjimmy/campaign-validator/src/config"
	"github.com/masnyjimmy/campaign-validator/src/runner"
	"github.com/masnyjimmy/campaign-validator/src/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate, then validate again whenever the schema or content changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			log.Fatal(err)
		}

		if err := Watch(cmd.OutOrStdout(), cfg, nil); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// Watch runs once, then reruns after every debounced change. onReport, if
// set, receives the report of every run. It returns only if the watcher
// cannot be started.
func Watch(out io.Writer, cfg config.Config, onReport func(*runner.Report)) error {
	r, err := newRunner(out, cfg)
	if err != nil {
		return err
	}

	run := func() {
		report, _ := r.Run()
		if onReport != nil {
			onReport(report)
		}
	}

	run()

	watcher, err := watch.Watch(cfg.Schema, cfg.Content, cfg.Debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	log.Printf("Watching %v and %v/ for changes", cfg.Schema, cfg.Content)

	for err := range watcher.Update {
		if err != nil {
			errorLogger.Print(err)
			continue
		}

		log.Print("Change detected, validating again..")
		run()
	}

	return nil
}
