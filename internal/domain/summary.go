package domain

// DaySummary is the total closed work time for one calendar day (UTC).
type DaySummary struct {
	Day        string
	TotalHours float64
}

// UserSummary groups a user's day totals for the admin report.
type UserSummary struct {
	UserID      int64
	Email       string
	WorkSummary []DaySummary
}
