package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"floorplan/internal/adjacency/pathfinding"
	"floorplan/internal/planner/render"
)

// ============================================================
// render
// ============================================================

type RenderOptions struct {
	Output string
	From   string
	To     string
	Scale  float64
}

func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <plan>",
		Short: "Render a plan to SVG",
		Long: `Draws rooms, connection lines between room centers and doors. With --from
and --to the route between the two rooms is highlighted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.From, "from", "", "highlight route from this room")
	cmd.Flags().StringVar(&opts.To, "to", "", "highlight route to this room")
	cmd.Flags().Float64Var(&opts.Scale, "scale", render.DefaultScale, "pixels per meter")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, planPath string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	plan, err := loadPlanOrReport(f, planPath)
	if err != nil {
		return err
	}

	scene := render.Scene{
		Rooms:       plan.Rooms,
		Connections: newBuilder(false).Recalculate(plan.Rooms, plan.Connections),
		Doors:       plan.Doors,
	}
	if opts.From != "" && opts.To != "" {
		scene.Path = pathfinding.FindPath(opts.From, opts.To, scene.Connections)
		f.VerboseLog("route %s -> %s: %d rooms", opts.From, opts.To, len(scene.Path))
	}

	renderer := render.NewRenderer()
	renderer.SetScale(opts.Scale)
	svg, err := renderer.Render(scene)
	if err != nil {
		_ = f.Error(ErrCodeInvalidPlan, err.Error(), nil)
		return WrapExitError(ExitFailure, ErrCodeInvalidPlan, err)
	}

	if opts.Output == "" {
		if f.JSON() {
			return f.Success(payload{"svg": svg}, nil)
		}
		_, err := fmt.Fprintln(f.Writer, svg)
		return err
	}

	if err := os.WriteFile(opts.Output, []byte(svg), 0o644); err != nil {
		_ = f.Error(ErrCodeWrite, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWrite, err)
	}
	return f.Success(payload{"output": opts.Output, "bytes": len(svg)}, func(w io.Writer) {
		fmt.Fprintf(w, "wrote %s (%d bytes)\n", opts.Output, len(svg))
	})
}
