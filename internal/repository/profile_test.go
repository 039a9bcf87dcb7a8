package repository

import (
	"context"
	"testing"

	"socialmedia/internal/models"
	"socialmedia/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Save_RequiresPersistedUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	orphan := &models.Profile{Description: "nobody"}
	assert.ErrorIs(t, repo.Save(ctx, orphan), models.ErrTransientReference)

	transient := &models.Profile{Description: "draft"}
	models.AttachProfile(&models.User{Name: "unsaved"}, transient)
	assert.ErrorIs(t, repo.Save(ctx, transient), models.ErrTransientReference)

	assert.Equal(t, int64(0), testutil.CountRows(t, db, "social_profiles"))
}

func TestProfileRepository_SaveFindUpdate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "alice"}
	require.NoError(t, users.Save(ctx, u))

	p := &models.Profile{Description: "first"}
	models.AttachProfile(u, p)
	require.NoError(t, repo.Save(ctx, p))
	require.NotZero(t, p.ID)
	require.NotNil(t, p.UserID)
	assert.Equal(t, u.ID, *p.UserID)

	p.Description = "second"
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Description)
	require.NotNil(t, found.User())
	assert.Equal(t, u.ID, found.User().ID)
	assert.Same(t, found, found.User().Profile())

	_, err = repo.FindByID(ctx, 404)
	assert.True(t, models.IsNotFound(err))
}

func TestProfileRepository_Save_ReplacesUsersProfile(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "alice"}
	require.NoError(t, users.Save(ctx, u))

	first := &models.Profile{Description: "first"}
	models.AttachProfile(u, first)
	require.NoError(t, repo.Save(ctx, first))

	second := &models.Profile{Description: "second"}
	models.AttachProfile(u, second)
	require.NoError(t, repo.Save(ctx, second))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, "social_profiles", "user_id = ?", u.ID))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].User())
	require.NotNil(t, all[1].User())
	assert.Equal(t, u.ID, all[1].User().ID)
}

func TestProfileRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "alice"}
	require.NoError(t, users.Save(ctx, u))
	p := &models.Profile{Description: "bio"}
	models.AttachProfile(u, p)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, repo.Delete(ctx, p))

	assert.Nil(t, u.Profile())
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "social_profiles"))
	assert.ErrorIs(t, repo.Delete(ctx, &models.Profile{}), models.ErrTransientReference)
}
