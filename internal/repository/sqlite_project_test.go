package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/alexanderramin/sprintwise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.NewTestUser("ana")
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, owner))
	repo := repository.NewSQLiteProjectRepo(db)

	proj := testutil.NewTestProject("Recipe Tracker", owner.ID)
	proj.Keywords = []string{"React", "Supabase"}
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj, fetched)
}

func TestProjectRepo_KeywordsKeepCommas(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.NewTestUser("ana")
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, owner))
	repo := repository.NewSQLiteProjectRepo(db)

	proj := testutil.NewTestProject("Shop", owner.ID)
	proj.Keywords = []string{"Payments, Stripe", "Go"}
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Payments, Stripe", "Go"}, fetched.Keywords)

	var stored string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT keywords FROM projects WHERE id = ?`, proj.ID).Scan(&stored))
	assert.Equal(t, `["Payments, Stripe","Go"]`, stored)
}

func TestProjectRepo_ReadsCommaSeparatedKeywords(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	_, proj := testutil.SeedProject(t, db, "Legacy")
	_, err := db.ExecContext(ctx, `UPDATE projects SET keywords = 'React, Supabase' WHERE id = ?`, proj.ID)
	require.NoError(t, err)

	fetched, err := repository.NewSQLiteProjectRepo(db).GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "Supabase"}, fetched.Keywords)
}

func TestProjectRepo_MasterPlanRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, proj := testutil.SeedProject(t, db, "Plan Keeper")

	fetched, err := repository.NewSQLiteProjectRepo(db).GetByID(context.Background(), proj.ID)
	require.NoError(t, err)

	plan, err := fetched.Plan()
	require.NoError(t, err)
	assert.Equal(t, testutil.TenWeekPlan(), plan)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := repository.NewSQLiteProjectRepo(db).GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepo_GetByPrefix(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.NewTestUser("ana")
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, owner))
	repo := repository.NewSQLiteProjectRepo(db)

	a := testutil.NewTestProject("A", owner.ID)
	a.ID = "abc12345-0000-0000-0000-000000000001"
	b := testutil.NewTestProject("B", owner.ID)
	b.ID = "abc12399-0000-0000-0000-000000000002"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByPrefix(ctx, "ABC12345")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.GetByPrefix(ctx, "abc123")
	assert.ErrorIs(t, err, repository.ErrAmbiguous)

	_, err = repo.GetByPrefix(ctx, "zzz")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByPrefix(ctx, "%")
	assert.ErrorIs(t, err, repository.ErrNotFound, "wildcards are matched literally")
}

func TestProjectRepo_UpdateProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	_, proj := testutil.SeedProject(t, db, "Progress")
	repo := repository.NewSQLiteProjectRepo(db)

	require.NoError(t, repo.UpdateProgress(ctx, proj.ID, 4, false))
	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.CurrentSprint)

	err = repo.UpdateProgress(ctx, "missing", 2, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCollaboratorRepo_DuplicateRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner, proj := testutil.SeedProject(t, db, "Dup")

	err := repository.NewSQLiteCollaboratorRepo(db).Create(ctx, &domain.Collaborator{
		ProjectID: proj.ID, UserID: owner.ID, Role: domain.RoleMember, InvitedAt: testutil.FixedNow,
	})
	assert.Error(t, err)
}

func TestUserRepo_GetByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := repository.NewSQLiteUserRepo(db)
	u := testutil.NewTestUser("ben")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByName(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = repo.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
