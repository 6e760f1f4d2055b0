package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/ui"
)

func newSavingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Manage what quitting saves you",
	}
	cmd.AddCommand(newSavingsAddCmd(), newSavingsRmCmd())
	return cmd
}

func newSavingsAddCmd() *cobra.Command {
	var kind string
	var unit string
	var per string

	cmd := &cobra.Command{
		Use:   "add <addiction> <amount>",
		Short: "Record an amount saved per day or week",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), idArgs(1, "addiction")),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "addiction")
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.New("amount must be a number")
			}
			st, err := recovery.ParseSavingsType(kind)
			if err != nil {
				return err
			}
			p, err := recovery.ParsePeriodicity(per)
			if err != nil {
				return err
			}
			if unit == "" && st == recovery.SavingsMoney {
				unit = cfg.MoneyUnit
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sv, err := svc.AddSavings(ctx, recovery.SavingsInput{
				AddictionID: id,
				AmountSaved: amount,
				Unit:        unit,
				SavingsType: st,
				Periodicity: p,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saving %s %s %s\n", ui.IconMoney,
				formatAmount(*sv, sv.AmountSaved), sv.Periodicity, ui.Muted.Render(fmt.Sprintf("(id %d)", sv.ID)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "money", "Savings type (money|time|calories|custom)")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "Display unit (defaults per type; money uses money_unit)")
	cmd.Flags().StringVarP(&per, "per", "p", "day", "Periodicity (day|week)")
	return cmd
}

func newSavingsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <savings>",
		Short: "Remove a savings entry",
		Args:  idArgs(1, "savings"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, _ := parseID(args[0], "savings")
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.RemoveSavings(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed savings #%d.\n", id)
			return nil
		},
	}
}
