package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/identity"
	"github.com/alexanderramin/worktime/internal/service"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", domain.ErrInvalidInput)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, domain.ErrInvalidInput)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s: %w", name, domain.ErrInvalidInput)
	}
	return &id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, domain.ErrInvalidInput)
	}
	return n, nil
}

// caller is always present behind identityMiddleware.
func caller(r *http.Request) identity.Caller {
	c, _ := identity.FromContext(r.Context())
	return c
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	session, err := s.services.Sessions.Start(r.Context(), caller(r).UserID, req.ProjectID, req.Description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionEnvelope{
		Message: "Work session started successfully",
		Session: toSessionDTO(session),
	})
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sessionId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	session, err := s.services.Sessions.Stop(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionEnvelope{
		Message: "Work session stopped successfully",
		Session: toSessionDTO(session),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sessionId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	session, err := s.services.Sessions.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	c := caller(r)
	if !c.IsAdmin() && session.UserID != c.UserID {
		// Do not reveal that another user's session exists.
		s.writeServiceError(w, r, fmt.Errorf("work session %d: %w", id, domain.ErrSessionNotFound))
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	c := caller(r)
	target, err := queryID(r, "userId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	userID := c.UserID
	if target != nil && *target != c.UserID {
		if !c.IsAdmin() {
			s.writeServiceError(w, r, domain.ErrForbidden)
			return
		}
		userID = *target
	}
	sessions, err := s.services.Sessions.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTOs(sessions))
}

func (s *Server) userSummary(w http.ResponseWriter, r *http.Request) {
	days, err := s.services.Summaries.SummarizeForUser(r.Context(), caller(r).UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDaySummaryDTOs(days))
}

func (s *Server) allUsersSummary(w http.ResponseWriter, r *http.Request) {
	if !caller(r).IsAdmin() {
		s.writeServiceError(w, r, domain.ErrForbidden)
		return
	}
	filter, err := queryID(r, "userId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	summaries, err := s.services.Summaries.SummarizeForAllUsers(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]userSummaryDTO, 0, len(summaries))
	for _, us := range summaries {
		out = append(out, userSummaryDTO{
			UserID:      us.UserID,
			Email:       us.Email,
			WorkSummary: toDaySummaryDTOs(us.WorkSummary),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	result, err := s.services.Projects.List(r.Context(), service.ProjectQuery{
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := projectPageDTO{
		Data:  make([]projectDTO, 0, len(result.Data)),
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	}
	for _, p := range result.Data {
		out.Data = append(out.Data, toProjectDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	if !caller(r).IsAdmin() {
		s.writeServiceError(w, r, domain.ErrForbidden)
		return
	}
	var req createProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p, err := s.services.Projects.Create(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(p))
}

func (s *Server) projectSessions(w http.ResponseWriter, r *http.Request) {
	if !caller(r).IsAdmin() {
		s.writeServiceError(w, r, domain.ErrForbidden)
		return
	}
	id, err := pathID(r, "projectId")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	sessions, err := s.services.Sessions.ListByProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTOs(sessions))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !caller(r).IsAdmin() {
		s.writeServiceError(w, r, domain.ErrForbidden)
		return
	}
	users, err := s.services.Users.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if !caller(r).IsAdmin() {
		s.writeServiceError(w, r, domain.ErrForbidden)
		return
	}
	var req createUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	u, err := s.services.Users.Create(r.Context(), req.Email, domain.Role(req.Role))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(u))
}
