package root

import (
	"context"

	"github.com/spf13/cobra"

	"cleansteps/internal/recovery"
	"cleansteps/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, path, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, recovery.NewService(db), path, cfg.Locale, cmd.OutOrStdout())
		},
	}

	return cmd
}
