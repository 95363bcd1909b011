// Command xflow loads flow files and runs, validates or renders them.
//
// Usage:
//
//	xflow [--log-level LEVEL] [--log-format text|json] <command> FILE [flags]
//
// Commands:
//
//	run       Execute the flow until it is quiescent or a component breaks
//	validate  Build the flow and print its components and connections
//	dot       Print the flow graph in Graphviz DOT format
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/orkestr8/xflow"
	"github.com/orkestr8/xflow/components"
	"github.com/orkestr8/xflow/flowfile"
	"github.com/spf13/cobra"
)

// version is set with ldflags at build time.
var version = "dev"

// app is the state shared by the subcommands.
type app struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

// registry returns the built-in components, with log writing to out.
func (a *app) registry(out io.Writer) *flowfile.Registry {
	r := flowfile.NewRegistry()
	for kind, f := range components.Factories() {
		if kind == "log" {
			continue
		}
		_ = r.Register(kind, f)
	}
	_ = r.Register("log", func(config map[string]xflow.Value) (xflow.Component, error) {
		if len(config) > 0 {
			return nil, fmt.Errorf("log takes no config")
		}
		return components.Log{Out: out}, nil
	})
	return r
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "xflow",
		Short:         "xflow runs flow-based programs described in HCL files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setupLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "INFO", "Log level: DEBUG, INFO, WARN or ERROR")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newDotCmd(a),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
