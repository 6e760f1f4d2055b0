package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the goals of a milestone",
	}
	cmd.AddCommand(
		newGoalAddCmd(),
		newGoalDoneCmd(),
		newGoalMeetingsCmd(),
		newGoalStepCmd(),
		newGoalRenameCmd(),
		newGoalRmCmd(),
		newGoalExportCmd(),
		newGoalImportCmd(),
	)
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a clean-time, meetings or task goal",
	}
	cmd.AddCommand(newGoalAddCleanTimeCmd(), newGoalAddMeetingsCmd(), newGoalAddTaskCmd())
	return cmd
}

// addGoal stores g in the milestone named by args[0] and reports it.
func addGoal(cmd *cobra.Command, args []string, g recovery.Goal) error {
	ctx := context.Background()
	msID, _ := parseID(args[0], "milestone")
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	wrapped := recovery.WrapGoal(g)
	if err := svc.AddGoal(ctx, msID, wrapped); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s to milestone #%d %s\n", ui.IconPlus, ui.GoalIcon(string(wrapped.Type())),
		ui.Key.Render(wrapped.Title()), msID, ui.Muted.Render("("+shortID(wrapped.ID())+")"))
	return nil
}

func newGoalAddCleanTimeCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:     "cleantime <milestone> <title>",
		Aliases: []string{"clean"},
		Short:   "Goal reached once clean time hits a target",
		Args:    cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseSpan(target)
			if err != nil {
				return fmt.Errorf("invalid --target %q: %w", target, err)
			}
			g, err := recovery.NewCleanTimeGoal(args[1], d)
			if err != nil {
				return err
			}
			return addGoal(cmd, args, g)
		},
	}
	cmd.Flags().StringVar(&target, "target", "30d", "Clean time to reach (e.g. 7d, 90d, 36h)")
	return cmd
}

func newGoalAddMeetingsCmd() *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:   "meetings <milestone> <title>",
		Short: "Goal reached after attending a number of meetings",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := recovery.NewMeetingsGoal(args[1], target)
			if err != nil {
				return err
			}
			return addGoal(cmd, args, g)
		},
	}
	cmd.Flags().IntVar(&target, "target", 1, "Meetings to attend")
	return cmd
}

func newGoalAddTaskCmd() *cobra.Command {
	var desc string
	var steps []string

	cmd := &cobra.Command{
		Use:   "task <milestone> <title>",
		Short: "Checklist goal, completed by hand",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := make([]recovery.TaskStep, 0, len(steps))
			for _, title := range steps {
				s, err := recovery.NewTaskStep(title, "")
				if err != nil {
					return err
				}
				ts = append(ts, s)
			}
			g, err := recovery.NewTaskGoal(args[1], desc, ts...)
			if err != nil {
				return err
			}
			return addGoal(cmd, args, g)
		},
	}
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Step title (repeatable)")
	return cmd
}

func newGoalDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <milestone> <goal>",
		Short: "Mark a goal completed",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := resolveGoal(ctx, svc, msID, args[1])
			if err != nil {
				return err
			}
			if _, err := svc.CompleteGoal(ctx, msID, g.ID()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconDone, g.Title())
			return reportAchieved(ctx, cmd.OutOrStdout(), svc, msID)
		},
	}
}

func newGoalMeetingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meetings <milestone> <goal> <count>",
		Short: "Set the number of meetings attended",
		Args:  cobra.MatchAll(cobra.ExactArgs(3), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.New("count must be an integer")
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := resolveGoal(ctx, svc, msID, args[1])
			if err != nil {
				return err
			}
			updated, err := svc.RecordMeetings(ctx, msID, g.ID(), n)
			if err != nil {
				return err
			}
			mg, _ := updated.Meetings()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d/%d meetings %s\n", ui.IconMeeting, updated.Title(),
				mg.CurrentMeetingsCount, mg.TargetMeetingsCount, ui.Check(updated.IsCompleted()))
			return reportAchieved(ctx, cmd.OutOrStdout(), svc, msID)
		},
	}
}

func newGoalStepCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "step <milestone> <goal> <step>",
		Short: "Check off (or with --undo, uncheck) a task step",
		Args:  cobra.MatchAll(cobra.ExactArgs(3), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := resolveGoal(ctx, svc, msID, args[1])
			if err != nil {
				return err
			}
			tg, ok := g.Task()
			if !ok {
				return fmt.Errorf("goal %s is a %s, not a task goal", shortID(g.ID()), g.Type())
			}
			stepID, err := resolveStep(tg, args[2])
			if err != nil {
				return err
			}
			updated, err := svc.SetTaskStep(ctx, msID, g.ID(), stepID, !undo)
			if err != nil {
				return err
			}
			tg, _ = updated.Task()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d/%d steps\n", ui.IconTask, updated.Title(), tg.CompletedSteps(), len(tg.Steps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Uncheck the step")
	return cmd
}

func newGoalRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <milestone> <goal> <title>",
		Short: "Change a goal's title",
		Args:  cobra.MatchAll(cobra.ExactArgs(3), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := resolveGoal(ctx, svc, msID, args[1])
			if err != nil {
				return err
			}
			updated, err := svc.RenameGoal(ctx, msID, g.ID(), args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", ui.Key.Render(updated.Title()))
			return nil
		},
	}
}

func newGoalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <milestone> <goal>",
		Short: "Remove a goal (a full id also removes goals that fail to load)",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := uuid.Parse(args[1])
			if err != nil {
				g, err := resolveGoal(ctx, svc, msID, args[1])
				if err != nil {
					return err
				}
				id = g.ID()
			}
			if err := svc.RemoveGoal(ctx, msID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed goal %s.\n", shortID(id))
			return nil
		},
	}
}

func newGoalExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <milestone> <goal>",
		Short: "Print a goal as tagged JSON",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := uuid.Parse(args[1])
			if err != nil {
				g, err := resolveGoal(ctx, svc, msID, args[1])
				if err != nil {
					return err
				}
				id = g.ID()
			}
			data, err := svc.ExportGoal(ctx, msID, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newGoalImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <milestone> <file|->",
		Short: "Add a goal from tagged JSON",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "milestone")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			msID, _ := parseID(args[0], "milestone")

			var data []byte
			var err error
			if args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("read goal: %w", err)
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := svc.ImportGoal(ctx, msID, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %s %s %s\n", ui.IconPlus, ui.GoalIcon(string(g.Type())),
				ui.Key.Render(g.Title()), ui.Muted.Render("("+shortID(g.ID())+")"))
			return nil
		},
	}
}

func reportAchieved(ctx context.Context, out io.Writer, svc *recovery.Service, msID int64) error {
	ms, err := svc.GetMilestone(ctx, msID)
	if err != nil {
		return err
	}
	if ms.IsAchieved() && ms.AllGoalsCompleted() {
		fmt.Fprintf(out, "%s Milestone #%d %s\n", ui.IconTrophy, ms.ID, ui.BadgeAchieved)
	}
	return nil
}
