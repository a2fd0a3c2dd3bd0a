package formatter

import (
	"fmt"

	"github.com/alexanderramin/worktime/internal/domain"
)

// FormatProjectPage renders one page of projects with a paging footer.
func FormatProjectPage(projects []*domain.Project, page, limit, total int) string {
	if total == 0 {
		return Dim("No projects found.") + "\n"
	}
	headers := []string{"ID", "NAME", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			p.Name,
			Dim(p.CreatedAt.UTC().Format("2006-01-02")),
		})
	}
	pages := (total + limit - 1) / limit
	footer := Dim(fmt.Sprintf("page %d of %d · %d projects", page, pages, total))
	return RenderBox("Projects", RenderTable(headers, rows)+"\n"+footer)
}

// FormatUserList renders the user directory.
func FormatUserList(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users found.") + "\n"
	}
	headers := []string{"ID", "EMAIL", "ROLE"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{fmt.Sprintf("%d", u.ID), u.Email, RoleBadge(u.Role)})
	}
	return RenderBox("Users", RenderTable(headers, rows))
}
