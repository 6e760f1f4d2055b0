package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [addiction]",
		Short: "Evaluate clean-time goals and record achieved milestones",
		Long:  "Checks clean-time goals against current clean time. Without an id, every tracked addiction is checked.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var reports []*recovery.ProgressReport
			if len(args) == 1 {
				id, err := parseID(args[0], "addiction")
				if err != nil {
					return err
				}
				r, err := svc.CheckProgress(ctx, id)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			} else {
				reports, err = svc.CheckAllProgress(ctx)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to check."))
				return nil
			}
			for _, r := range reports {
				fmt.Fprintf(out, "%s #%d clean %s\n", ui.IconClock, r.AddictionID, ui.Good.Render(recovery.FormatCleanTime(r.CleanTime)))
				for _, g := range r.GoalsReached {
					fmt.Fprintf(out, "  %s %s\n", ui.IconDone, g.Title())
				}
				for _, id := range r.MilestonesAchieved {
					fmt.Fprintf(out, "  %s Milestone #%d %s\n", ui.IconTrophy, id, ui.BadgeAchieved)
				}
				if len(r.GoalsReached) == 0 && len(r.MilestonesAchieved) == 0 {
					fmt.Fprintln(out, "  "+ui.Muted.Render("No new goals reached."))
				}
			}
			return nil
		},
	}
}
