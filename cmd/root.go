/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/masnyjimmy/campaign-validator/src/config"
	"github.com/masnyjimmy/campaign-validator/src/runner"
	"github.com/masnyjimmy/campaign-validator/src/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCmd validates the content directory once and exits
var rootCmd = &cobra.Command{
	Use:   "campaign-validator",
	Short: "Validate a directory of JSON documents against a JSON Schema",
	Long: `Validates every *.json file directly inside the content directory
against the schema file and prints a per-file status and a summary.

Exits with status 1 if the schema or the content directory is missing,
or if any file fails validation.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			errorLogger.Print(err)
			os.Exit(1)
		}

		if res := ValidateContent(cmd.OutOrStdout(), cfg); res != 0 {
			os.Exit(res)
		}
	},
}

var errorLogger *log.Logger = log.New(os.Stderr, "Error ", log.Ltime)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", config.DEFAULT_CONFIG_FILE, "YAML config file (optional)")
	flags.StringP("schema", "s", config.DEFAULT_SCHEMA_FILE, "JSON Schema file")
	flags.StringP("content", "d", config.DEFAULT_CONTENT_DIR, "Directory of JSON files to validate")
	flags.String("draft", validation.DefaultDraft, "Default JSON Schema draft (4, 6, 7, 2019-09, 2020-12)")
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	filename, _ := flags.GetString("config")

	cfg, err := config.Load(filename, flags.Changed("config"))
	if err != nil {
		return cfg, err
	}

	if flags.Changed("schema") {
		cfg.Schema, _ = flags.GetString("schema")
	}
	if flags.Changed("content") {
		cfg.Content, _ = flags.GetString("content")
	}
	if flags.Changed("draft") {
		cfg.Draft, _ = flags.GetString("draft")
	}

	return cfg, cfg.Validate()
}

func newRunner(out io.Writer, cfg config.Config) (*runner.Runner, error) {
	opts, err := cfg.SchemaOptions()
	if err != nil {
		return nil, err
	}

	return runner.New(out, runner.Options{
		SchemaPath:    cfg.Schema,
		ContentDir:    cfg.Content,
		SchemaOptions: opts,
	}), nil
}

// ValidateContent performs a single run and returns the exit code.
func ValidateContent(out io.Writer, cfg config.Config) int {
	r, err := newRunner(out, cfg)
	if err != nil {
		errorLogger.Print(err)
		return 1
	}

	return runner.ExitCode(r.Run())
}
