package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drools-graph/drlx/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "drlx",
	Short: "drlx - permissive Drools DRL parser",
	Long: `drlx reads Drools rule files (.drl) and turns them into a structured model
of packages, imports, globals, rules, queries, functions and declared types.

Problems inside one construct never stop the parse: the construct is reported
with its location and the rest of the file is still parsed.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (text, json, console)")
}
