package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"floorplan/internal/adjacency/validation"
)

// ============================================================
// validate
// ============================================================

func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan>",
		Short: "Check a plan for isolated, unreachable and overlapping rooms",
		Long: `Recalculates connections and reports rooms without connections, rooms
outside the main connected group, overlapping rooms and doors that do not
fit their connection. Exits with code 1 when anything is found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(rootOpts *RootOptions, planPath string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	plan, err := loadPlanOrReport(f, planPath)
	if err != nil {
		return err
	}

	conns := newBuilder(false).Recalculate(plan.Rooms, plan.Connections)
	res := validation.Validate(plan.Rooms, conns, plan.Doors)

	if res.Valid() {
		return f.Success(payload{"valid": true, "result": res}, func(w io.Writer) {
			fmt.Fprintln(w, "plan is valid")
		})
	}

	details := payload{"valid": false, "result": res}
	if f.JSON() {
		_ = f.Error(ErrCodeValidation, "plan is not valid", details)
	} else {
		writeValidation(f.Writer, res)
	}
	return NewExitError(ExitFailure, ErrCodeValidation+": plan is not valid")
}

func writeValidation(w io.Writer, res validation.Result) {
	fmt.Fprintf(w, "orphan rooms: %s\n", listOrNone(res.OrphanRooms))
	fmt.Fprintf(w, "unreachable rooms: %s\n", listOrNone(res.UnreachableRooms))

	pairs := make([]string, 0, len(res.OverlappingRooms))
	for _, pair := range res.OverlappingRooms {
		pairs = append(pairs, pair[0]+"/"+pair[1])
	}
	fmt.Fprintf(w, "overlapping rooms: %s\n", listOrNone(pairs))

	doors := make([]string, 0, len(res.InvalidDoors))
	for _, door := range res.InvalidDoors {
		doors = append(doors, fmt.Sprintf("%s (%s)", door.DoorID, door.Reason))
	}
	fmt.Fprintf(w, "invalid doors: %s\n", listOrNone(doors))
	fmt.Fprintln(w, "plan is not valid")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
