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

func TestProjectService_GetByDisplayID(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, project := testutil.SeedProject(t, database, "Recipe Tracker")
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))

	got, err := svc.Get(context.Background(), project.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_ListForUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	owner, older := testutil.SeedProject(t, database, "Older")
	_, _ = testutil.SeedProject(t, database, "Someone else's")

	projects := repository.NewSQLiteProjectRepo(database)
	newer := testutil.NewTestProject("Newer", owner.ID, testutil.WithCreatedAt(testutil.FixedNow.Add(time.Hour)))
	require.NoError(t, projects.Create(ctx, newer))
	require.NoError(t, repository.NewSQLiteCollaboratorRepo(database).Create(ctx, &domain.Collaborator{
		ProjectID: newer.ID, UserID: owner.ID, Role: domain.RoleOwner, Accepted: true, InvitedAt: testutil.FixedNow,
	}))

	list, err := NewProjectService(projects).ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestProjectService_AdvanceSprint(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	_, project := testutil.SeedProject(t, database, "Short", testutil.WithNumSprints(2))
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))

	p, err := svc.AdvanceSprint(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentSprint)
	assert.False(t, p.Complete)

	p, err = svc.AdvanceSprint(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentSprint, "capped at the last sprint")
	assert.True(t, p.Complete)

	_, err = svc.AdvanceSprint(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectComplete)

	stored, err := svc.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.Complete)
}

func TestUserService_Ensure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewUserService(repository.NewSQLiteUserRepo(database), func() time.Time { return testutil.FixedNow })

	first, err := svc.Ensure(ctx, "ana", "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	again, err := svc.Ensure(ctx, " ana ", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "ana@example.com", again.Email)

	_, err = svc.Ensure(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
