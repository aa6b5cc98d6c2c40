package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/toolmanifest/internal/app"
	"github.com/jgivc/toolmanifest/internal/config"
	"github.com/jgivc/toolmanifest/internal/ui"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	opts := app.Options{}

	cmd := &cobra.Command{
		Use:   "manifestgen",
		Short: "Generate manifest.json from tool metadata",
		Long: `manifestgen scans the hooks/, skills/, agents/ and slash-commands/
directories, validates every <tool>/metadata.json and writes a single
sorted manifest.json. Any invalid tool aborts the run and leaves the
existing manifest untouched.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.New(opts).Generate(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultConfigFileName, "Path to config file")
	f.StringVar(&opts.EnvPath, "env-file", config.DefaultEnvFileName, "Path to env file")
	f.StringVar(&opts.Root, "root", "", "Repository root containing the category directories")
	f.StringVar(&opts.Output, "output", "", "Manifest path, relative to the root unless absolute")
	f.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Validate and report without writing the manifest")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		stop()
		os.Exit(1)
	}
}
