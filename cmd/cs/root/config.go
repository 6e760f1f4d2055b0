package root

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cleansteps/internal/storage"
	"cleansteps/internal/ui"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if f := viper.ConfigFileUsed(); f != "" {
				fmt.Fprintln(out, ui.Muted.Render("# from "+f))
			}
			shown := cfg
			path, err := storage.ResolveDBPath(cfg.DBPath)
			if err != nil {
				return err
			}
			shown.DBPath = path
			data, err := shown.Render()
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}
