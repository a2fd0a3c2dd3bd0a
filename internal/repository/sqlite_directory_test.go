package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/repository"
	"github.com/alexanderramin/worktime/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateGetExists(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	ctx := context.Background()

	u := testutil.NewTestUser(testutil.WithEmail("ada@example.com"), testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, repos.Users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	byID, err := repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, domain.RoleAdmin, byID.Role)

	byEmail, err := repos.Users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	ok, err := repos.Users.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Users.Exists(ctx, u.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repos.Users.GetByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, testutil.NewTestUser(testutil.WithEmail("dup@example.com"))))
	err := repos.Users.Create(ctx, testutil.NewTestUser(testutil.WithEmail("dup@example.com")))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepo_ListOrderedByID(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	a := testutil.SeedUser(t, repos)
	b := testutil.SeedUser(t, repos)

	users, err := repos.Users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)
}

func TestProjectRepo_ListPagingAndSorting(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		testutil.SeedProject(t, repos, name)
	}

	page, total, err := repos.Projects.List(ctx, repository.ProjectQuery{Limit: 2, SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Name)
	assert.Equal(t, "Bravo", page[1].Name)

	page, _, err = repos.Projects.List(ctx, repository.ProjectQuery{Offset: 2, Limit: 2, SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Charlie", page[0].Name)

	page, _, err = repos.Projects.List(ctx, repository.ProjectQuery{SortBy: "name", Desc: true})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Charlie", page[0].Name)
}

func TestProjectRepo_UnknownSortFallsBackToName(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	testutil.SeedProject(t, repos, "Zed")
	testutil.SeedProject(t, repos, "Abe")

	page, _, err := repos.Projects.List(context.Background(),
		repository.ProjectQuery{SortBy: "name; DROP TABLE projects"})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Abe", page[0].Name)
}

func TestProjectRepo_ExistsAndGet(t *testing.T) {
	repos := repository.NewSQLiteRepos(testutil.NewTestDB(t))
	ctx := context.Background()
	p := testutil.SeedProject(t, repos, "Atlas")

	ok, err := repos.Projects.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Atlas", got.Name)

	_, err = repos.Projects.GetByID(ctx, p.ID+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteTransactor_RollsBackOnError(t *testing.T) {
	database := testutil.NewTestDB(t)
	tr := testutil.NewTestTransactor(database)
	ctx := context.Background()

	err := tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Projects.Create(ctx, testutil.NewTestProject("Ghost")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, total, err := repository.NewSQLiteRepos(database).Projects.List(ctx, repository.ProjectQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
