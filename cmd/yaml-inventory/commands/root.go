package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Environment variables consulted for flag defaults.
const (
	envInventoryFile = "YAML_INV"
	envLogLevel      = "LOG_LEVEL"
)

const defaultInventoryName = "hosts.yml"

// options holds the parsed command-line flags.
type options struct {
	file      string
	list      bool
	host      string
	pretty    bool
	extraVars string

	logLevel  string
	logFormat string
	logFile   string
	verbose   bool

	traceExporter string
	traceEndpoint string
	metricsFile   string
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "yaml-inventory",
		Short: "Dynamic inventory from a YAML host and group description",
		Long: `yaml-inventory reads a YAML list of host and group declarations and
prints the dynamic-inventory JSON contract.

Modes:
  --list         every group with hosts, vars, children and parents,
                 plus _meta.hostvars with the resolved vars of every host
  --host NAME    the resolved vars of one host`,
		Example: `  # List the inventory next to the binary
  yaml-inventory --list

  # Resolve one host from a specific file, pretty printed
  yaml-inventory -f ./hosts.yml --host db1 --pretty

  # Inject an extra top-level key
  yaml-inventory --list -e deploy_id=42`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, version)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", defaultInventoryFile(), "inventory file path (env "+envInventoryFile+")")
	flags.BoolVarP(&opts.list, "list", "l", false, "list all groups and host variables")
	flags.StringVarP(&opts.host, "host", "H", "", "print the resolved variables of one host")
	flags.BoolVarP(&opts.pretty, "pretty", "p", false, "indent JSON output")
	flags.StringVarP(&opts.extraVars, "extra-vars", "e", "", "extra top-level key=value added to the output")

	flags.StringVar(&opts.logLevel, "log-level", envOrDefault(envLogLevel, "warn"), "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (console, json)")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file instead of stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging with caller information")

	flags.StringVar(&opts.traceExporter, "trace", "none", "trace exporter (none, stdout, otlp)")
	flags.StringVar(&opts.traceEndpoint, "trace-endpoint", "localhost:4317", "OTLP gRPC endpoint")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	return rootCmd
}

// defaultInventoryFile returns $YAML_INV, or hosts.yml next to the executable.
func defaultInventoryFile() string {
	if path := os.Getenv(envInventoryFile); path != "" {
		return path
	}

	exe, err := os.Executable()
	if err != nil {
		return defaultInventoryName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), defaultInventoryName)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
