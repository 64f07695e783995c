// Package cli wires Cobra subcommands to application dependencies; it is a thin controller with no business logic.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/logging"
)

// NewRootCmd creates the root command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "agentic",
		Short: "Agentic AI platform server",
		// Let main handle fatal error rendering through structured logs.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logging.SetLevel(slog.LevelDebug)
			} else {
				logging.SetLevel(slog.LevelInfo)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `agentic serve` when no subcommand is provided.
			serveCmd, _, err := cmd.Find([]string{"serve"})
			if err != nil {
				return err
			}
			serveCmd.SetContext(cmd.Context())
			return serveCmd.RunE(serveCmd, args)
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (debug level)")

	return root
}
