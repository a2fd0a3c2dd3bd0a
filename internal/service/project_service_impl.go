package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/repository"
)

const (
	defaultProjectPage  = 1
	defaultProjectLimit = 10
	maxProjectLimit     = 100
	defaultProjectSort  = "name"
)

var projectSortKeys = map[string]bool{
	"id":         true,
	"name":       true,
	"created_at": true,
}

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, name string) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "create-project", time.Now(), &err, nil)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", domain.ErrInvalidInput)
	}
	p = &domain.Project{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, persistence("creating project", err)
	}
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
		}
		return nil, persistence("getting project", err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, q ProjectQuery) (*ProjectPage, error) {
	rq, page, limit, err := normalizeProjectQuery(q)
	if err != nil {
		return nil, err
	}
	projects, total, err := s.projects.List(ctx, rq)
	if err != nil {
		return nil, persistence("listing projects", err)
	}
	return &ProjectPage{Data: projects, Total: total, Page: page, Limit: limit}, nil
}

// normalizeProjectQuery applies defaults and converts page/limit into an
// offset query.
func normalizeProjectQuery(q ProjectQuery) (repository.ProjectQuery, int, int, error) {
	page, limit := q.Page, q.Limit
	if page == 0 {
		page = defaultProjectPage
	}
	if limit == 0 {
		limit = defaultProjectLimit
	}
	if page < 1 {
		return repository.ProjectQuery{}, 0, 0, fmt.Errorf("page must be >= 1: %w", domain.ErrInvalidInput)
	}
	if limit < 1 || limit > maxProjectLimit {
		return repository.ProjectQuery{}, 0, 0, fmt.Errorf("limit must be between 1 and %d: %w", maxProjectLimit, domain.ErrInvalidInput)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultProjectSort
	}
	if !projectSortKeys[sortBy] {
		return repository.ProjectQuery{}, 0, 0, fmt.Errorf("unsupported sortBy %q: %w", sortBy, domain.ErrInvalidInput)
	}

	var desc bool
	switch strings.ToUpper(q.SortOrder) {
	case "", "ASC":
	case "DESC":
		desc = true
	default:
		return repository.ProjectQuery{}, 0, 0, fmt.Errorf("sortOrder must be ASC or DESC: %w", domain.ErrInvalidInput)
	}

	return repository.ProjectQuery{
		Offset: (page - 1) * limit,
		Limit:  limit,
		SortBy: sortBy,
		Desc:   desc,
	}, page, limit, nil
}
