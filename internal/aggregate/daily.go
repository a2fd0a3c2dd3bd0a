// Package aggregate turns closed work sessions into per-day hour totals.
// Everything here is pure; callers fetch the sessions.
package aggregate

import (
	"math"
	"sort"

	"github.com/alexanderramin/worktime/internal/domain"
)

// DayLayout is the UTC calendar day key used for bucketing.
const DayLayout = "2006-01-02"

// msPerCentHour is one hundredth of an hour.
const msPerCentHour = 36_000

// ByDay sums closed sessions per UTC start day and returns the totals in
// hours, rounded to two decimals and sorted by day. Open sessions are
// skipped. A session that crosses midnight counts entirely toward the day
// it started.
func ByDay(sessions []*domain.WorkSession) []domain.DaySummary {
	totals := make(map[string]int64)
	for _, s := range sessions {
		if s == nil || s.IsOpen() {
			continue
		}
		day := s.StartTime.UTC().Format(DayLayout)
		totals[day] += s.Duration().Milliseconds()
	}

	out := make([]domain.DaySummary, 0, len(totals))
	for day, ms := range totals {
		out = append(out, domain.DaySummary{Day: day, TotalHours: RoundHours(ms)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// RoundHours converts milliseconds to hours rounded half away from zero to
// two decimal places. Dividing the integer straight into hundredths keeps
// exact halves exact; scaling fractional hours by 100 does not.
func RoundHours(ms int64) float64 {
	cents := math.Round(float64(ms) / msPerCentHour)
	return cents / 100
}

// GroupByUser partitions sessions by owner, keeping input order.
func GroupByUser(sessions []*domain.WorkSession) map[int64][]*domain.WorkSession {
	grouped := make(map[int64][]*domain.WorkSession)
	for _, s := range sessions {
		if s == nil {
			continue
		}
		grouped[s.UserID] = append(grouped[s.UserID], s)
	}
	return grouped
}
