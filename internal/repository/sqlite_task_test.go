package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/alexanderramin/sprintwise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner, proj := testutil.SeedProject(t, db, "Tasks")
	repo := repository.NewSQLiteTaskRepo(db)

	task := testutil.NewTestTask(proj.ID, "Create repo")
	task.AssigneeID = owner.ID
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	byPrefix, err := repo.GetByPrefix(ctx, strings.ToUpper(task.DisplayID()))
	require.NoError(t, err)
	assert.Equal(t, task.ID, byPrefix.ID)
}

func TestTaskRepo_UnassignedIsNull(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	_, proj := testutil.SeedProject(t, db, "Tasks")
	repo := repository.NewSQLiteTaskRepo(db)

	task := testutil.NewTestTask(proj.ID, "nobody's")
	require.NoError(t, repo.Create(ctx, task))

	var isNull bool
	require.NoError(t, db.QueryRow(`SELECT assignee_id IS NULL FROM tasks WHERE id = ?`, task.ID).Scan(&isNull))
	assert.True(t, isNull)
}

func TestTaskRepo_ListOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	_, proj := testutil.SeedProject(t, db, "Tasks")
	repo := repository.NewSQLiteTaskRepo(db)

	for _, task := range []*domain.Task{
		testutil.NewTestTask(proj.ID, "s2", testutil.WithTaskSprint(2), testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestTask(proj.ID, "s1-low", testutil.WithPriority(domain.PriorityLow)),
		testutil.NewTestTask(proj.ID, "s1-high", testutil.WithPriority(domain.PriorityHigh)),
	} {
		require.NoError(t, repo.Create(ctx, task))
	}

	all, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	var titles []string
	for _, task := range all {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"s1-high", "s1-low", "s2"}, titles)

	sprint2, err := repo.ListBySprint(ctx, proj.ID, 2)
	require.NoError(t, err)
	require.Len(t, sprint2, 1)
	assert.Equal(t, "s2", sprint2[0].Title)
}

func TestTaskRepo_UpdateMissing(t *testing.T) {
	db := testutil.NewTestDB(t)

	err := repository.NewSQLiteTaskRepo(db).Update(context.Background(), testutil.NewTestTask("p", "ghost"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepo_CascadeOnProjectDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	_, proj := testutil.SeedProject(t, db, "Cascade")
	repo := repository.NewSQLiteTaskRepo(db)
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(proj.ID, "goes away")))

	_, err := db.Exec(`DELETE FROM projects WHERE id = ?`, proj.ID)
	require.NoError(t, err)

	tasks, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
