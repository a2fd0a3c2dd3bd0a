package api

import (
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
)

type sessionDTO struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ProjectID   int64      `json:"projectId"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

func toSessionDTO(s *domain.WorkSession) sessionDTO {
	return sessionDTO{
		ID:          s.ID,
		UserID:      s.UserID,
		ProjectID:   s.ProjectID,
		Description: s.Description,
		StartTime:   s.StartTime.UTC(),
		EndTime:     s.EndTime,
	}
}

func toSessionDTOs(in []*domain.WorkSession) []sessionDTO {
	out := make([]sessionDTO, 0, len(in))
	for _, s := range in {
		out = append(out, toSessionDTO(s))
	}
	return out
}

type sessionEnvelope struct {
	Message string     `json:"message"`
	Session sessionDTO `json:"session"`
}

type startSessionRequest struct {
	ProjectID   int64  `json:"projectId"`
	Description string `json:"description"`
}

type daySummaryDTO struct {
	Day        string  `json:"day"`
	TotalHours float64 `json:"totalHours"`
}

func toDaySummaryDTOs(in []domain.DaySummary) []daySummaryDTO {
	out := make([]daySummaryDTO, 0, len(in))
	for _, d := range in {
		out = append(out, daySummaryDTO{Day: d.Day, TotalHours: d.TotalHours})
	}
	return out
}

type userSummaryDTO struct {
	UserID      int64           `json:"userId"`
	Email       string          `json:"email"`
	WorkSummary []daySummaryDTO `json:"workSummary"`
}

type projectDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	return projectDTO{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt.UTC()}
}

type projectPageDTO struct {
	Data  []projectDTO `json:"data"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type createProjectRequest struct {
	Name string `json:"name"`
}

type userDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt.UTC()}
}

type createUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
