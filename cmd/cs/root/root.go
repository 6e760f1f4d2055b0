package root

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cleansteps/internal/config"
	"cleansteps/internal/logger"
	"cleansteps/internal/ui"
)

const Version = "0.1.0"

// cfg is loaded before any subcommand runs.
var cfg config.Config

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "cs",
		Short:         "CleanSteps: local-first sobriety tracker",
		Long:          "CleanSteps tracks clean time, savings and recovery milestones for the substances you are quitting.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Setup(cfgFile); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(logger.Options{
				Level:     cfg.LogLevel,
				Format:    cfg.LogFormat,
				Dev:       cfg.IsDev(),
				SentryDSN: cfg.SentryDSN,
			})
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .cleansteps.toml)")
	cmd.PersistentFlags().String("db", "", "database path (default ~/.cleansteps.db)")
	_ = viper.BindPFlag("db_path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(
		newSubstancesCmd(),
		newAddCmd(),
		newListCmd(),
		newStatusCmd(),
		newResetCmd(),
		newEnableCmd(true),
		newEnableCmd(false),
		newDeleteCmd(),
		newSavingsCmd(),
		newMilestoneCmd(),
		newGoalCmd(),
		newCheckCmd(),
		newBoardCmd(),
		newConfigCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		logger.Flush(2 * time.Second)
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
