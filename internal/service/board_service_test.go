package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/alexanderramin/sprintwise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBoard(t *testing.T) (BoardService, repository.TaskRepo, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	_, project := testutil.SeedProject(t, database, "Recipe Tracker")
	tasks := repository.NewSQLiteTaskRepo(database)
	return NewBoardService(repository.NewSQLiteProjectRepo(database), tasks), tasks, project
}

func TestBoard_GroupsByStatus(t *testing.T) {
	svc, tasks, project := setupBoard(t)
	ctx := context.Background()

	seed := []*domain.Task{
		testutil.NewTestTask(project.ID, "low todo", testutil.WithPriority(domain.PriorityLow)),
		testutil.NewTestTask(project.ID, "high todo", testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestTask(project.ID, "doing", testutil.WithStatus(domain.TaskInProgress)),
		testutil.NewTestTask(project.ID, "shipped", testutil.WithStatus(domain.TaskDone)),
		testutil.NewTestTask(project.ID, "next sprint", testutil.WithTaskSprint(2)),
	}
	for _, task := range seed {
		require.NoError(t, tasks.Create(ctx, task))
	}

	board, err := svc.Board(ctx, project.DisplayID(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Sprint)
	require.Len(t, board.Columns, 3)

	titles := func(c Column) []string {
		var out []string
		for _, task := range c.Tasks {
			out = append(out, task.Title)
		}
		return out
	}
	assert.Equal(t, domain.TaskTodo, board.Columns[0].Status)
	assert.Equal(t, []string{"high todo", "low todo"}, titles(board.Columns[0]))
	assert.Equal(t, []string{"doing"}, titles(board.Columns[1]))
	assert.Equal(t, []string{"shipped"}, titles(board.Columns[2]))

	next, err := svc.Board(ctx, project.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"next sprint"}, titles(next.Columns[0]))
}

func TestBoard_SprintOutOfRange(t *testing.T) {
	svc, _, project := setupBoard(t)

	_, err := svc.Board(context.Background(), project.ID, 11)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBoard_UnknownProject(t *testing.T) {
	svc, _, _ := setupBoard(t)

	_, err := svc.Board(context.Background(), "ffffffff", 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMoveTask(t *testing.T) {
	svc, tasks, project := setupBoard(t)
	ctx := context.Background()
	task := testutil.NewTestTask(project.ID, "wire auth")
	require.NoError(t, tasks.Create(ctx, task))

	moved, err := svc.MoveTask(ctx, task.DisplayID(), domain.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, moved.Status)

	stored, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, stored.Status)
	assert.Equal(t, "wire auth", stored.Title, "other fields untouched")

	_, err = svc.MoveTask(ctx, task.ID, domain.TaskStatus("blocked"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTask_FieldLevel(t *testing.T) {
	svc, tasks, project := setupBoard(t)
	ctx := context.Background()
	task := testutil.NewTestTask(project.ID, "draft schema")
	task.Description = "tables for recipes"
	require.NoError(t, tasks.Create(ctx, task))

	title := "Design schema"
	sprint := 3
	due := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateTask(ctx, task.ID, TaskPatch{Title: &title, Sprint: &sprint, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "Design schema", updated.Title)

	stored, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design schema", stored.Title)
	assert.Equal(t, "tables for recipes", stored.Description)
	assert.Equal(t, 3, stored.Sprint)
	assert.Equal(t, due, stored.DueDate)
}

func TestUpdateTask_Validation(t *testing.T) {
	svc, tasks, project := setupBoard(t)
	ctx := context.Background()
	task := testutil.NewTestTask(project.ID, "x")
	require.NoError(t, tasks.Create(ctx, task))

	_, err := svc.UpdateTask(ctx, task.ID, TaskPatch{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	blank := "  "
	_, err = svc.UpdateTask(ctx, task.ID, TaskPatch{Title: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooFar := project.NumSprints + 1
	_, err = svc.UpdateTask(ctx, task.ID, TaskPatch{Sprint: &tooFar})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
