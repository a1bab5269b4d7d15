package market

import (
	"KolDesk/entity"
	"context"
	"net/http"
)

// ListProjects returns the projects owned by a user.
func (s *MarketService) ListProjects(ctx context.Context, userUUID string) ([]entity.Project, error) {
	var projects []entity.Project
	err := s.call(ctx, http.MethodGet, "/api/v1/projects?user="+userUUID, nil, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject registers a new project for a user.
func (s *MarketService) CreateProject(ctx context.Context, userUUID string, draft entity.ProjectDraft) (*entity.Project, error) {
	body := struct {
		UserUUID string `json:"user_uuid"`
		entity.ProjectDraft
	}{userUUID, draft}

	var project entity.Project
	if err := s.call(ctx, http.MethodPost, "/api/v1/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
