package domain

import "time"

// WorkSession is a single open-to-closed interval of work by one user on
// one project. Only EndTime ever changes after creation, and only once.
type WorkSession struct {
	ID          int64
	UserID      int64
	ProjectID   int64
	Description string
	StartTime   time.Time
	EndTime     *time.Time
}

func (s *WorkSession) IsOpen() bool {
	return s.EndTime == nil
}

func (s *WorkSession) State() SessionState {
	if s.IsOpen() {
		return SessionOpen
	}
	return SessionClosed
}

// Duration returns the closed interval length, or 0 while the session is open.
func (s *WorkSession) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
