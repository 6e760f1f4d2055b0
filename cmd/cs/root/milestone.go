package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

func newMilestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"ms"},
		Short:   "Manage recovery milestones",
	}
	cmd.AddCommand(newMilestoneAddCmd(), newMilestoneShowCmd(), newMilestoneListCmd(), newMilestoneRmCmd())
	return cmd
}

func newMilestoneAddCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "add <addiction>",
		Short: "Create an empty milestone, or the predefined set with --seed",
		Args:  idArgs(1, "addiction"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if !seed {
				ms, err := svc.CreateMilestone(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Milestone #%d created. Add goals with cs goal add.\n", ui.IconFlag, ms.ID)
				return nil
			}

			list, err := svc.SeedMilestones(ctx, id)
			if err != nil {
				return err
			}
			report, err := svc.CheckProgress(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Seeded %d milestones (%d already achieved).\n", ui.IconFlag, len(list), len(report.MilestonesAchieved))
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Create one milestone per predefined clean-time threshold")
	return cmd
}

func newMilestoneShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <milestone>",
		Short: "Show a milestone and its goals",
		Args:  idArgs(1, "milestone"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ms, err := svc.GetMilestone(ctx, id)
			if err != nil {
				return err
			}
			printMilestone(cmd.OutOrStdout(), ms, true)
			return nil
		},
	}
}

func newMilestoneListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [addiction]",
		Short: "List milestones of an addiction, or all milestones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var list []*recovery.Milestone
			if len(args) == 1 {
				id, err := parseID(args[0], "addiction")
				if err != nil {
					return err
				}
				list, err = svc.ListMilestones(ctx, id)
				if err != nil {
					return err
				}
			} else {
				list, err = svc.ListAllMilestones(ctx)
				if err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No milestones."))
			}
			for _, ms := range list {
				printMilestone(out, ms, false)
			}
			return nil
		},
	}
}

func newMilestoneRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <milestone>",
		Short: "Delete a milestone and its goals",
		Args:  idArgs(1, "milestone"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteMilestone(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted milestone #%d.\n", id)
			return nil
		},
	}
}

func printMilestone(out io.Writer, ms *recovery.Milestone, detail bool) {
	done := 0
	for _, g := range ms.Goals {
		if g.IsCompleted() {
			done++
		}
	}
	owner := "detached"
	if ms.AddictionID != nil {
		owner = fmt.Sprintf("addiction #%d", *ms.AddictionID)
	}
	head := fmt.Sprintf("%s Milestone #%d %s %s %d/%d", ui.IconFlag, ms.ID, ui.Muted.Render("("+owner+")"),
		ui.ProgressBar(done, len(ms.Goals), 12), done, len(ms.Goals))
	if ms.IsAchieved() {
		head += " " + ui.BadgeAchieved + " " + ui.Muted.Render(ui.Date(ms.Date))
	}
	fmt.Fprintln(out, ui.H2.Render(head))

	for _, g := range ms.Goals {
		fmt.Fprintf(out, "  %s %s %s %s%s\n", ui.Check(g.IsCompleted()), ui.GoalIcon(string(g.Type())),
			ui.Muted.Render(shortID(g.ID())), g.Title(), goalSummary(g))
		if !detail {
			continue
		}
		if tg, ok := g.Task(); ok {
			if tg.Description != "" {
				fmt.Fprintf(out, "      %s\n", ui.Muted.Render(tg.Description))
			}
			for _, s := range tg.Steps {
				fmt.Fprintf(out, "      %s %s %s\n", ui.Check(s.IsCompleted), ui.Muted.Render(shortID(s.ID)), s.Title)
			}
		}
	}
	for _, bad := range ms.Unloadable {
		fmt.Fprintf(out, "  %s %s %s\n", ui.IconBroken, ui.Muted.Render(bad.GoalID), ui.Warn.Render(bad.Err.Error()))
	}
}

func goalSummary(g recovery.AnyGoal) string {
	if ct, ok := g.CleanTime(); ok {
		return ui.Muted.Render(" (" + recovery.FormatCleanTime(ct.TargetCleanTime) + ")")
	}
	if mg, ok := g.Meetings(); ok {
		return ui.Muted.Render(fmt.Sprintf(" (%d/%d meetings)", mg.CurrentMeetingsCount, mg.TargetMeetingsCount))
	}
	if tg, ok := g.Task(); ok && len(tg.Steps) > 0 {
		return ui.Muted.Render(fmt.Sprintf(" (%d/%d steps)", tg.CompletedSteps(), len(tg.Steps)))
	}
	return ""
}
