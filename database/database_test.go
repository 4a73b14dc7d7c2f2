package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/testdb"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDatabase_Ping(t *testing.T) {
	db := testdb.New(t)
	assert.NoError(t, db.Ping(context.Background()))

	var empty database.Database
	err := empty.Ping(context.Background())
	assert.True(t, errs.IsServiceUnavailableError(err))

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	err = db.Ping(expired)
	assert.ErrorIs(t, err, errs.ErrDatabaseTimeout)
	assert.False(t, errs.IsServiceUnavailableError(err))
}

func TestMessageRepo_FlagsAndBulkDelete(t *testing.T) {
	db := testdb.New(t)
	repo := db.MessageRepo()
	ctx := context.Background()

	first := &models.Message{Name: "Ann", Email: "ann@example.com", Message: "hello"}
	second := &models.Message{Name: "Bob", Email: "bob@example.com", Message: "hi"}
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	updated, err := repo.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	updated, err = repo.MarkReplied(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, updated.Replied)
	assert.False(t, updated.Read)

	read := true
	readOnly, err := repo.FindAll(ctx, &read)
	require.NoError(t, err)
	require.Len(t, readOnly, 1)
	assert.Equal(t, first.ID, readOnly[0].ID)

	removed, err := repo.DeleteRead(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	all, err := repo.FindAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID)

	_, err = repo.MarkRead(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectRepo_ReorderAndTechnologies(t *testing.T) {
	db := testdb.New(t)
	repo := db.ProjectRepo()
	ctx := context.Background()

	a := &models.Project{ID: uuid.New(), Title: datatypes.NewJSONType(models.Same("a")), Description: datatypes.NewJSONType(models.Same("a")), Order: 0}
	a.SetTechnologies([]string{"Go", "Postgres"})
	b := &models.Project{ID: uuid.New(), Title: datatypes.NewJSONType(models.Same("b")), Description: datatypes.NewJSONType(models.Same("b")), Order: 1, Featured: true}
	require.NoError(t, repo.Add(ctx, a))
	require.NoError(t, repo.Add(ctx, b))

	require.NoError(t, repo.Reorder(ctx, []database.ProjectOrder{{ID: a.ID, Order: 5}, {ID: b.ID, Order: 2}}))

	projects, err := repo.FindAll(ctx, database.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, b.ID, projects[0].ID)
	assert.Equal(t, models.StatusPublished, projects[0].Status)
	assert.Equal(t, []string{"Go", "Postgres"}, projects[1].TechnologyNames())

	featured, err := repo.FindAll(ctx, database.ProjectFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, b.ID, featured[0].ID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestUserRepo_PasswordIsOnlyLoadedOnRequest(t *testing.T) {
	db := testdb.New(t)
	repo := db.UserRepo()
	ctx := context.Background()

	u := &models.User{Email: " Admin@Example.com ", Password: "hash", Name: "Admin"}
	require.NoError(t, repo.Add(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Password)
	assert.Equal(t, "admin@example.com", got.Email)

	withPassword, err := repo.FindByEmailWithPassword(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", withPassword.Password)

	exists, err := repo.ExistsByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Add(ctx, &models.User{Email: "admin@example.com", Password: "x"})
	assert.True(t, errs.IsConflict(err))

	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, time.Now()))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

func TestExperienceRepo_CurrentClearsEndDate(t *testing.T) {
	db := testdb.New(t)
	repo := db.ExperienceRepo()
	ctx := context.Background()

	end := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	e := &models.Experience{
		Role:      datatypes.NewJSONType(models.Same("Engineer")),
		Company:   datatypes.NewJSONType(models.Same("Acme")),
		StartDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
		Current:   true,
	}
	require.NoError(t, repo.Add(ctx, e))

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, models.ExperienceTypeWork, got.Type)
	assert.Equal(t, "Jan 2021 - Present", got.DateRange())
}
