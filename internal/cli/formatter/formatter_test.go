package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{45 * time.Minute, "45m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "日本語...", Truncate("日本語テキストです", 6))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{{"wide cell", "x"}, {"y"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[0], "LONGER"), strings.Index(lines[2], "x"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatSessionList(t *testing.T) {
	start := time.Date(2025, 4, 25, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	sessions := []*domain.WorkSession{
		{ID: 1, UserID: 2, ProjectID: 3, Description: "Closed one", StartTime: start, EndTime: &end},
		{ID: 2, UserID: 2, ProjectID: 3, Description: "Open one", StartTime: end},
	}

	out := stripANSI(FormatSessionList("Sessions", sessions))
	assert.Contains(t, out, "SESSIONS")
	assert.Contains(t, out, "2025-04-25 09:00 UTC")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "● Open")
	assert.Contains(t, out, "✔ Closed")

	assert.Contains(t, FormatSessionList("Sessions", nil), "No sessions found.")
}

func TestFormatSession_Open(t *testing.T) {
	s := &domain.WorkSession{ID: 9, UserID: 1, ProjectID: 1, Description: "Writing", StartTime: time.Date(2025, 4, 25, 9, 0, 0, 0, time.UTC)}
	out := stripANSI(FormatSession(s))
	assert.Contains(t, out, "Session  9")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "Writing")
}

func TestFormatDaySummary(t *testing.T) {
	out := stripANSI(FormatDaySummary("user #2", []domain.DaySummary{
		{Day: "2025-04-25", TotalHours: 3.5},
		{Day: "2025-04-26", TotalHours: 0.33},
	}))
	assert.Contains(t, out, "WORK SUMMARY · USER #2")
	assert.Contains(t, out, "3.50h")
	assert.Contains(t, out, "0.33h")
	assert.Contains(t, out, "3.83h", "footer should show the total")

	assert.Contains(t, stripANSI(FormatDaySummary("x", nil)), "No closed sessions.")
}

func TestFormatUserSummaries(t *testing.T) {
	out := stripANSI(FormatUserSummaries([]domain.UserSummary{
		{UserID: 1, Email: "a@example.com", WorkSummary: []domain.DaySummary{{Day: "2025-04-25", TotalHours: 2}}},
		{UserID: 2, Email: "b@example.com", WorkSummary: []domain.DaySummary{}},
	}))
	assert.Contains(t, out, "a@example.com (#1)")
	assert.Contains(t, out, "2.00h")
	assert.Contains(t, out, "b@example.com (#2)")
	assert.Contains(t, out, "No closed sessions.")

	assert.Contains(t, FormatUserSummaries(nil), "No users found.")
}

func TestFormatProjectPage(t *testing.T) {
	projects := []*domain.Project{{ID: 1, Name: "Atlas", CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}}
	out := stripANSI(FormatProjectPage(projects, 1, 10, 11))
	assert.Contains(t, out, "Atlas")
	assert.Contains(t, out, "2025-01-02")
	assert.Contains(t, out, "page 1 of 2 · 11 projects")

	assert.Contains(t, FormatProjectPage(nil, 1, 10, 0), "No projects found.")
}

func TestFormatUserList(t *testing.T) {
	out := stripANSI(FormatUserList([]*domain.User{
		{ID: 1, Email: "root@example.com", Role: domain.RoleAdmin},
	}))
	assert.Contains(t, out, "root@example.com")
	assert.Contains(t, out, "admin")
}
