package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// ============================================================
// Root Command
// ============================================================

// RootOptions глобальные флаги всех команд.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "adjacency",
		Short: "Room adjacency tools for floor plans",
		Long: `Detects which rooms of a floor plan share a wall, keeps connection
identity across edits, finds routes between rooms and renders plans to SVG.

Plans are read from YAML or JSON files with rooms, connections and doors.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewConnectionsCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}
