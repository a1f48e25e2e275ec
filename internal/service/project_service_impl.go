package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Get(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalidInput("project id is required")
	}
	return s.projects.GetByPrefix(ctx, ref)
}

func (s *projectService) ListForUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *projectService) AdvanceSprint(ctx context.Context, ref string) (*domain.Project, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p.Complete {
		return nil, fmt.Errorf("advancing %s: %w", p.DisplayID(), ErrProjectComplete)
	}

	if p.CurrentSprint < p.NumSprints {
		p.CurrentSprint++
	} else {
		p.Complete = true
	}
	if err := s.projects.UpdateProgress(ctx, p.ID, p.CurrentSprint, p.Complete); err != nil {
		return nil, err
	}
	return p, nil
}
