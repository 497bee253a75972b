package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/playmaster/internal/factory"
	"github.com/mcoot/playmaster/internal/services/history"
)

func newHistoryCmd(cfg *Config) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print stored game history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(app *factory.App) error {
				all, err := app.HistoryService.All(cmd.Context())
				if err != nil {
					return err
				}

				if user != "" {
					filtered := []history.UserHistory{{Username: user}}
					for _, h := range all {
						if h.Username == user {
							filtered[0] = h
						}
					}
					all = filtered
				}

				out := NewOutput(cmd.OutOrStdout(), cfg.Output, cfg.NoColor)
				out.Print(HistoryReport{Users: all, Now: app.Clock.Now()})
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Only show this user's games")

	return cmd
}
