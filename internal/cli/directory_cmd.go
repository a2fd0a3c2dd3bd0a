package cli

import (
	"fmt"

	"github.com/alexanderramin/worktime/internal/cli/formatter"
	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the user directory",
	}
	cmd.AddCommand(newUserCreateCmd(app), newUserListCmd(app))
	return cmd
}

func newUserCreateCmd(app *App) *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.Create(cmd.Context(), email, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user #%d %s (%s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role: user or admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUserList(users))
			return nil
		},
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCmd(app), newProjectListCmd(app))
	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project #%d %s\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var q service.ProjectQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := app.Projects.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectPage(page.Data, page.Page, page.Limit, page.Total))
			return nil
		},
	}

	bindProjectQuery(cmd.Flags(), &q)
	return cmd
}

// bindProjectQuery registers the paging and sorting flags of a project listing.
func bindProjectQuery(fs *pflag.FlagSet, q *service.ProjectQuery) {
	fs.IntVar(&q.Page, "page", 1, "Page number")
	fs.IntVar(&q.Limit, "limit", 10, "Projects per page")
	fs.StringVar(&q.SortBy, "sort-by", "name", "Sort key: id, name or created_at")
	fs.StringVar(&q.SortOrder, "order", "ASC", "Sort order: ASC or DESC")
}
