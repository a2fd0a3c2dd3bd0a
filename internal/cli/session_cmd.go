package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/worktime/internal/cli/formatter"
	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, stop and inspect work sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionStopCmd(app),
		newSessionShowCmd(app),
		newSessionListCmd(app),
	)

	return cmd
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", what, raw, domain.ErrInvalidInput)
	}
	return id, nil
}

func newSessionStartCmd(app *App) *cobra.Command {
	var userID, projectID int64
	var description string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Sessions.Start(cmd.Context(), userID, projectID, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started session #%d at %s\n", s.ID, formatter.Timestamp(s.StartTime))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project ID")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What the session is about")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newSessionStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <session-id>",
		Short: "Close an open work session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			s, err := app.Sessions.Stop(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped session #%d after %s\n", s.ID, formatter.FormatDuration(s.Duration()))
			return nil
		},
	}
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one work session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "session id")
			if err != nil {
				return err
			}
			s, err := app.Sessions.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSession(s))
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	var userID, projectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's or a project's sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				sessions []*domain.WorkSession
				title    string
				err      error
			)
			switch {
			case userID > 0:
				sessions, err = app.Sessions.ListByUser(cmd.Context(), userID)
				title = fmt.Sprintf("Sessions · user #%d", userID)
			case projectID > 0:
				sessions, err = app.Sessions.ListByProject(cmd.Context(), projectID)
				title = fmt.Sprintf("Sessions · project #%d", projectID)
			default:
				return fmt.Errorf("one of --user or --project is required")
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(title, sessions))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "List sessions of this user")
	cmd.Flags().Int64Var(&projectID, "project", 0, "List sessions of this project")
	cmd.MarkFlagsMutuallyExclusive("user", "project")
	return cmd
}
