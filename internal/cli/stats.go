package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/playmaster/internal/factory"
	"github.com/mcoot/playmaster/internal/services/history"
)

func newStatsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print user and game counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(app *factory.App) error {
				users, err := app.AuthService.CountUsers(cmd.Context())
				if err != nil {
					return err
				}
				all, err := app.HistoryService.All(cmd.Context())
				if err != nil {
					return err
				}

				report := StatsReport{Users: users, PerUser: history.Summarize(all)}
				for _, st := range report.PerUser {
					report.Games += st.Played
				}

				out := NewOutput(cmd.OutOrStdout(), cfg.Output, cfg.NoColor)
				out.Print(report)
				return nil
			})
		},
	}
}
