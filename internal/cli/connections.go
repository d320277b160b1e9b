package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"floorplan/internal/adjacency/graph"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// connections
// ============================================================

type ConnectionsOptions struct {
	Fresh  bool
	SeqIDs bool
}

func NewConnectionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConnectionsOptions{}

	cmd := &cobra.Command{
		Use:   "connections <plan>",
		Short: "Detect room connections of a plan",
		Long: `Detects which rooms share a wall and prints the resulting connections.

Connections already present in the plan keep their ids and doors; manual
connections are kept while both rooms exist. Use --fresh to ignore them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnections(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "ignore connections stored in the plan")
	cmd.Flags().BoolVar(&opts.SeqIDs, "seq-ids", false, "number new connections conn-1, conn-2, ... instead of uuids")

	return cmd
}

func runConnections(rootOpts *RootOptions, opts *ConnectionsOptions, planPath string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	plan, err := loadPlanOrReport(f, planPath)
	if err != nil {
		return err
	}

	builder := newBuilder(opts.SeqIDs)
	var conns []models.RoomConnection
	if opts.Fresh {
		conns = builder.CalculateAllConnections(plan.Rooms)
	} else {
		conns = builder.Recalculate(plan.Rooms, plan.Connections)
	}
	f.VerboseLog("%d connections (%d in plan)", len(conns), len(plan.Connections))

	return f.Success(payload{"connections": conns}, func(w io.Writer) {
		for _, conn := range conns {
			fmt.Fprintln(w, formatConnection(conn))
		}
		fmt.Fprintf(w, "%d connections\n", len(conns))
	})
}

// payload JSON-объект ответа.
type payload map[string]any

func newBuilder(seqIDs bool) *graph.GraphBuilder {
	builder := graph.NewGraphBuilder()
	if seqIDs {
		n := 0
		builder.SetIDGenerator(func() string {
			n++
			return fmt.Sprintf("conn-%d", n)
		})
	}
	return builder
}

func formatConnection(conn models.RoomConnection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s <-> %s", conn.ID, conn.Room1ID, conn.Room2ID)
	if conn.IsManual {
		b.WriteString(" [manual]")
	} else {
		fmt.Fprintf(&b, " [%s/%s, %.2f m]", conn.Room1Wall, conn.Room2Wall, conn.SharedWallLength)
	}
	if len(conn.Doors) > 0 {
		fmt.Fprintf(&b, " doors=%s", strings.Join(conn.Doors, ","))
	}
	return b.String()
}
