package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"floorplan/internal/adjacency/pathfinding"
)

// ============================================================
// path
// ============================================================

type PathOptions struct {
	From string
	To   string
}

type PathResult struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Path     []string `json:"path"`
	Hops     int      `json:"hops"`
	Distance float64  `json:"distance"`
}

func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PathOptions{}

	cmd := &cobra.Command{
		Use:   "path <plan>",
		Short: "Find the shortest route between two rooms",
		Long: `Finds the route with the fewest room-to-room moves and reports the walking
distance between room centers along it. Connections are recalculated first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "start room id")
	cmd.Flags().StringVar(&opts.To, "to", "", "end room id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runPath(rootOpts *RootOptions, opts *PathOptions, planPath string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	plan, err := loadPlanOrReport(f, planPath)
	if err != nil {
		return err
	}

	conns := newBuilder(false).Recalculate(plan.Rooms, plan.Connections)
	path := pathfinding.FindPath(opts.From, opts.To, conns)
	distance, err := pathfinding.PathDistance(path, plan.Rooms)
	if err != nil {
		_ = f.Error(ErrCodeNoPath, err.Error(), nil)
		return WrapExitError(ExitFailure, ErrCodeNoPath, err)
	}

	if len(path) == 0 {
		msg := fmt.Sprintf("no path from %s to %s", opts.From, opts.To)
		_ = f.Error(ErrCodeNoPath, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	res := PathResult{From: opts.From, To: opts.To, Path: path, Hops: len(path) - 1, Distance: distance}
	return f.Success(res, func(w io.Writer) {
		fmt.Fprintln(w, strings.Join(res.Path, " -> "))
		fmt.Fprintf(w, "%d hops, %.2f m\n", res.Hops, res.Distance)
	})
}
