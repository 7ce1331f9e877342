package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/buildinfo"
)

// Execute runs the terramesh CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (refine,
// render, snapshots, serve), configures logging based on the --verbose
// flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "terramesh",
		Short:        "Terramesh adaptively refines triangular terrain meshes",
		Long:         `Terramesh is a CLI tool for adaptive triangular mesh refinement over flat and spherical terrain, using longest-edge bisection to keep refined meshes conforming.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRefineCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newSnapshotsCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
