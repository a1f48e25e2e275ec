package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/db"
	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"go.uber.org/zap"
)

type commitService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	logger   *zap.Logger
	now      func() time.Time
	observer UseCaseObserver
}

// NewCommitService wires the commit adapter. Project and collaborator rows
// are written through tx-scoped repositories inside uow; tasks go through
// the given repo one by one after that transaction commits.
func NewCommitService(tasks repository.TaskRepo, uow db.UnitOfWork, logger *zap.Logger, now func() time.Time, observers ...UseCaseObserver) CommitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &commitService{
		tasks:    tasks,
		uow:      uow,
		logger:   logger.Named("commit"),
		now:      now,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *commitService) Commit(ctx context.Context, draft domain.ProjectDraft, plan domain.ProjectPlan, tasks []domain.TaskDraft, ownerID string) (result *CommitResult, err error) {
	startedAt := s.now()
	defer func() {
		fields := []zap.Field{zap.String("project", draft.Name), zap.Int("tasks", len(tasks))}
		if result != nil {
			fields = append(fields, zap.String("project_id", result.Project.ID), zap.Int("task_failures", len(result.Failures)))
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "commit_project",
			Duration:  s.now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
			StartedAt: startedAt,
		})
	}()

	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, invalidInput("owner id is required")
	}

	bundle := domain.NewProjectBundle(draft, plan, tasks, ownerID, startedAt)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, bundle.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := repository.NewSQLiteCollaboratorRepo(tx).Create(ctx, bundle.Collaborator); err != nil {
			return fmt.Errorf("creating owner collaborator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("committing project %q: %w", draft.Name, err)
	}

	result = &CommitResult{
		Project:      bundle.Project,
		Collaborator: bundle.Collaborator,
		Tasks:        make([]*domain.Task, 0, len(bundle.Tasks)),
	}
	for i, task := range bundle.Tasks {
		if err := s.tasks.Create(ctx, task); err != nil {
			s.logger.Warn("task insert failed",
				zap.String("project_id", bundle.Project.ID),
				zap.Int("task", i+1),
				zap.String("title", task.Title),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, TaskFailure{Index: i + 1, Title: task.Title, Err: err})
			continue
		}
		result.Tasks = append(result.Tasks, task)
	}

	if len(result.Failures) > 0 {
		return result, &PartialCommitError{
			ProjectID: bundle.Project.ID,
			Total:     len(bundle.Tasks),
			Failures:  result.Failures,
		}
	}
	return result, nil
}
