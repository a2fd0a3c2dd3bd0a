package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worktime/internal/domain"
)

func daySummaryTable(days []domain.DaySummary) string {
	if len(days) == 0 {
		return Dim("No closed sessions.")
	}
	headers := []string{"DAY", "HOURS"}
	rows := make([][]string, 0, len(days)+1)
	var total float64
	for _, d := range days {
		rows = append(rows, []string{d.Day, FormatHours(d.TotalHours)})
		total += d.TotalHours
	}
	rows = append(rows, []string{Bold("Total"), Bold(FormatHours(total))})
	return RenderTable(headers, rows)
}

// FormatDaySummary renders one user's per-day totals.
func FormatDaySummary(label string, days []domain.DaySummary) string {
	return RenderBox("Work summary · "+label, daySummaryTable(days))
}

// FormatUserSummaries renders the admin report, one section per user.
func FormatUserSummaries(summaries []domain.UserSummary) string {
	if len(summaries) == 0 {
		return Dim("No users found.") + "\n"
	}
	sections := make([]string, 0, len(summaries))
	for _, us := range summaries {
		sections = append(sections,
			fmt.Sprintf("%s %s\n%s", Bold(us.Email), Dim(fmt.Sprintf("(#%d)", us.UserID)),
				daySummaryTable(us.WorkSummary)))
	}
	return RenderBox("Work summary · all users", strings.Join(sections, "\n\n"))
}
