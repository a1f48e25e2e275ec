package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
)

type boardService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func NewBoardService(projects repository.ProjectRepo, tasks repository.TaskRepo) BoardService {
	return &boardService{projects: projects, tasks: tasks}
}

func (s *boardService) Board(ctx context.Context, projectRef string, sprint int) (*Board, error) {
	p, err := s.projects.GetByPrefix(ctx, strings.TrimSpace(projectRef))
	if err != nil {
		return nil, err
	}
	if sprint == 0 {
		sprint = p.CurrentSprint
	}
	if sprint < 1 || sprint > p.NumSprints {
		return nil, invalidInput("sprint %d is outside 1..%d", sprint, p.NumSprints)
	}

	tasks, err := s.tasks.ListBySprint(ctx, p.ID, sprint)
	if err != nil {
		return nil, err
	}

	board := &Board{Project: p, Sprint: sprint, Columns: make([]Column, len(domain.BoardColumns))}
	index := make(map[domain.TaskStatus]int, len(domain.BoardColumns))
	for i, status := range domain.BoardColumns {
		board.Columns[i].Status = status
		index[status] = i
	}
	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			continue
		}
		board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
	}
	return board, nil
}

func (s *boardService) MoveTask(ctx context.Context, taskRef string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, invalidInput("unknown status %q", status)
	}
	t, err := s.tasks.GetByPrefix(ctx, strings.TrimSpace(taskRef))
	if err != nil {
		return nil, err
	}
	if t.Status == status {
		return t, nil
	}
	t.Status = status
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *boardService) UpdateTask(ctx context.Context, taskRef string, patch TaskPatch) (*domain.Task, error) {
	if patch.Empty() {
		return nil, invalidInput("nothing to update")
	}
	t, err := s.tasks.GetByPrefix(ctx, strings.TrimSpace(taskRef))
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalidInput("task title cannot be empty")
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Sprint != nil {
		p, err := s.projects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		if *patch.Sprint < 1 || *patch.Sprint > p.NumSprints {
			return nil, invalidInput("sprint %d is outside 1..%d", *patch.Sprint, p.NumSprints)
		}
		t.Sprint = *patch.Sprint
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate.UTC()
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
