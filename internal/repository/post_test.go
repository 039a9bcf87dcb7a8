package repository

import (
	"context"
	"regexp"
	"testing"

	"socialmedia/internal/models"
	"socialmedia/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Save_InsertMock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts" ("content","user_id","created_at","updated_at") VALUES ($1,$2,$3,$4) RETURNING "id"`)).
		WithArgs("hello", 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	post := &models.Post{Content: "hello"}
	models.AssignAuthor(post, &models.User{ID: 3})

	require.NoError(t, repo.Save(context.Background(), post))
	assert.Equal(t, uint(10), post.ID)
	require.NotNil(t, post.UserID)
	assert.Equal(t, uint(3), *post.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Save_RequiresPersistedAuthor(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, &models.Post{Content: "no author"}), models.ErrTransientReference)

	post := &models.Post{Content: "unsaved author"}
	models.AssignAuthor(post, &models.User{Name: "draft"})
	assert.ErrorIs(t, repo.Save(ctx, post), models.ErrTransientReference)
}

func TestPostRepository_ReassignAndList(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := &models.User{Name: "alice"}
	bob := &models.User{Name: "bob"}
	require.NoError(t, users.Save(ctx, alice))
	require.NoError(t, users.Save(ctx, bob))

	post := &models.Post{Content: "hello"}
	models.AssignAuthor(post, alice)
	require.NoError(t, repo.Save(ctx, post))

	models.AssignAuthor(post, bob)
	require.NoError(t, repo.Save(ctx, post))

	found, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Author())
	assert.Equal(t, bob.ID, found.Author().ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "hello", all[0].Content)

	require.NoError(t, repo.Delete(ctx, post))
	assert.Empty(t, bob.Posts())
	_, err = repo.FindByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_UserSaveClaimsPersistedPosts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := &models.User{Name: "alice"}
	bob := &models.User{Name: "bob"}
	require.NoError(t, users.Save(ctx, alice))
	require.NoError(t, users.Save(ctx, bob))

	post := &models.Post{Content: "moving"}
	models.AssignAuthor(post, alice)
	require.NoError(t, repo.Save(ctx, post))

	models.AssignAuthor(post, bob)
	require.NoError(t, users.Save(ctx, bob))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, "posts", "user_id = ?", bob.ID))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "posts", "user_id = ?", alice.ID))
}
