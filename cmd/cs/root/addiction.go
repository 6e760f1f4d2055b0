package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

func newSubstancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "substances",
		Short: "List the substances that can be tracked",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLeaf, "Substances"))
			for _, s := range recovery.Substances() {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render(s.String()), ui.Muted.Render(s.Description()))
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var reason string
	var since string
	var fellows int
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add <substance>",
		Short: "Start tracking a substance",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("substance is required (see cs substances)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sub, err := recovery.ParseSubstance(args[0])
			if err != nil {
				return err
			}
			in := recovery.AddictionInput{
				Substance:        sub,
				Reason:           reason,
				IsEnabled:        !disabled,
				FellowUsersCount: fellows,
			}
			if since != "" {
				at, err := parseWhen(since, time.Now())
				if err != nil {
					return err
				}
				in.SobrietyDate = &at
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			a, err := svc.CreateAddiction(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Tracking %s %s\n", ui.IconPlus, ui.Key.Render(a.Substance.String()), ui.Muted.Render(fmt.Sprintf("(id %d)", a.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why you are quitting")
	cmd.Flags().StringVarP(&since, "since", "s", "now", "Sobriety start (YYYY-MM-DD, RFC3339, or a span like 30d)")
	cmd.Flags().IntVar(&fellows, "fellows", 0, "Fellow users sharing the next milestone")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Add without tracking")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked addictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := svc.ListAddictions(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing tracked yet. Try: cs add alcohol --since 30d"))
				return nil
			}
			now := time.Now()
			for i := range all {
				a := &all[i]
				fmt.Fprintf(out, "%s %s %s %s\n",
					ui.Muted.Render(fmt.Sprintf("#%d", a.ID)),
					ui.Key.Render(a.Substance.String()),
					recovery.FormatCleanTime(a.CleanTime(now)),
					ui.EnabledText(a.IsEnabled))
			}
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <addiction>",
		Short: "Show clean time, savings and milestone dates",
		Args:  idArgs(1, "addiction"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := svc.AddictionStatus(ctx, id)
			if err != nil {
				return err
			}
			a := st.Addiction
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLeaf, a.Substance.String()))
			fmt.Fprintln(out, ui.Muted.Render(a.SubstanceInfo()))
			if a.Reason != "" {
				fmt.Fprintln(out, ui.LabelValue("Reason", a.Reason))
			}
			fmt.Fprintln(out, ui.LabelValue("Tracking", ui.EnabledText(a.IsEnabled)))
			fmt.Fprintln(out, ui.LabelValue("Sober since", ui.Date(a.SobrietyDate)))
			fmt.Fprintln(out, ui.LabelValue("Clean time", ui.Good.Render(recovery.FormatCleanTime(st.CleanTime))))
			fmt.Fprintln(out, ui.LabelValue("Last milestone", ui.Date(st.LastMilestone)))
			next := ui.Date(st.NextMilestone)
			if st.NextMilestone != nil {
				next += " " + ui.Muted.Render("(in "+recovery.FormatCleanTime(st.UntilNext)+")")
			}
			fmt.Fprintln(out, ui.LabelValue("Next milestone", next))
			if a.FellowUsersCount > 0 {
				fmt.Fprintln(out, ui.LabelValue("Fellows", a.FellowUsersCount))
			}

			if len(st.Savings) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(ui.IconMoney+" Savings"))
				for _, s := range st.Savings {
					fmt.Fprintf(out, "- %s %s %s\n",
						ui.Muted.Render(fmt.Sprintf("#%d", s.Savings.ID)),
						ui.Good.Render(formatAmount(s.Savings, s.Accrued)),
						ui.Muted.Render(fmt.Sprintf("(%s %s)", formatAmount(s.Savings, s.Savings.AmountSaved), s.Savings.Periodicity)))
				}
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "reset <addiction>",
		Short: "Restart the clean-time clock (e.g. after a relapse)",
		Args:  idArgs(1, "addiction"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			when, err := parseWhen(at, time.Now())
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			a, err := svc.ResetSobriety(ctx, id, when)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s clock restarted at %s. One day at a time.\n", ui.IconReset, a.Substance, ui.Date(a.SobrietyDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "now", "New sobriety start (YYYY-MM-DD, RFC3339, or a span like 2d)")
	return cmd
}

func newEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <addiction>", "Resume tracking an addiction"
	if !enable {
		use, short = "disable <addiction>", "Pause tracking an addiction"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  idArgs(1, "addiction"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetAddictionEnabled(ctx, id, enable); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s\n", id, ui.EnabledText(enable))
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <addiction>",
		Short: "Delete an addiction and its savings (milestones are kept)",
		Args:  idArgs(1, "addiction"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteAddiction(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted addiction #%d.\n", id)
			return nil
		},
	}
}

func formatAmount(s recovery.Savings, amount float64) string {
	return ui.Amount(cfg.Locale, amount, s.Unit, s.SavingsType == recovery.SavingsMoney)
}
