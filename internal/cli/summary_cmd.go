package cli

import (
	"fmt"

	"github.com/alexanderramin/worktime/internal/cli/formatter"
	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/identity"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Report closed work time per UTC day",
	}
	cmd.AddCommand(newSummaryUserCmd(app), newSummaryAllCmd(app))
	return cmd
}

func newSummaryUserCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "user <user-id>",
		Short: "Per-day totals for one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			days, err := app.Summaries.SummarizeForUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDaySummary(fmt.Sprintf("user #%d", id), days))
			return nil
		},
	}
}

func newSummaryAllCmd(app *App) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Per-day totals for every user",
		Long:  "Per-day totals for every user. The CLI is an operator tool and runs this report with admin rights.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := identity.WithCaller(cmd.Context(), identity.Caller{Role: domain.RoleAdmin})
			var filter *int64
			if cmd.Flags().Changed("user") {
				filter = &userID
			}
			summaries, err := app.Summaries.SummarizeForAllUsers(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUserSummaries(summaries))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Restrict the report to one user")
	return cmd
}
