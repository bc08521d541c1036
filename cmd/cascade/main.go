/*
Command cascade styles an HTML document and prints the resulting rule tree.

Usage:

	cascade dump  [--user-css file] document.html
	cascade dot   [--user-css file] document.html > ruletree.dot
	cascade stats [--listen :9090] document.html

Configuration is read from .cascade.yaml (current folder or $HOME) or from
a file given with --config, and may be overridden by environment variables
with prefix CASCADE_, e.g. CASCADE_TRACE_LEVEL=debug.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:           "cascade",
		Short:         "Style an HTML document and inspect its CSS rule tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .cascade.yaml)")
	rootCmd.PersistentFlags().String("trace", "", "trace level: error, info or debug")
	rootCmd.PersistentFlags().String("user-css", "", "user stylesheet")
	rootCmd.PersistentFlags().Bool("no-author-colors", false, "disallow author colors")
	loadCfg := func(cmd *cobra.Command) (*Config, error) {
		return LoadConfig(configPath, cmd.Flags())
	}
	rootCmd.AddCommand(newDumpCommand(loadCfg))
	rootCmd.AddCommand(newDotCommand(loadCfg))
	rootCmd.AddCommand(newStatsCommand(loadCfg))
	return rootCmd
}
