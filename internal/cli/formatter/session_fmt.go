package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worktime/internal/domain"
)

// FormatSession renders one session as a labelled block.
func FormatSession(s *domain.WorkSession) string {
	end := Dim("--")
	duration := Dim("running")
	if s.EndTime != nil {
		end = Timestamp(*s.EndTime)
		duration = FormatDuration(s.Duration())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d\n", Bold("Session"), s.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("State      "), StatePill(s.State()))
	fmt.Fprintf(&b, "%s  %d\n", Dim("User       "), s.UserID)
	fmt.Fprintf(&b, "%s  %d\n", Dim("Project    "), s.ProjectID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Description"), s.Description)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Started    "), Timestamp(s.StartTime))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Ended      "), end)
	fmt.Fprintf(&b, "%s  %s", Dim("Duration   "), duration)
	return RenderBox("", b.String())
}

// FormatSessionList renders sessions as a table.
func FormatSessionList(title string, sessions []*domain.WorkSession) string {
	if len(sessions) == 0 {
		return Dim("No sessions found.") + "\n"
	}
	headers := []string{"ID", "USER", "PROJECT", "STARTED", "DURATION", "STATE", "DESCRIPTION"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := Dim("--")
		if !s.IsOpen() {
			duration = FormatDuration(s.Duration())
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.ID),
			fmt.Sprintf("%d", s.UserID),
			fmt.Sprintf("%d", s.ProjectID),
			Timestamp(s.StartTime),
			duration,
			StatePill(s.State()),
			Dim(Truncate(s.Description, 40)),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}
