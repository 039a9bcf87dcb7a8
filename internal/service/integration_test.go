package service

import (
	"context"
	"testing"

	"socialmedia/internal/cache"
	"socialmedia/internal/featureflags"
	"socialmedia/internal/models"
	"socialmedia/internal/repository"
	"socialmedia/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLiteService(t *testing.T, flags string) (*SocialService, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	set, _ := featureflags.Parse(flags)
	return NewSocialService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db),
		set,
	), db
}

func TestSocialService_UserLifecycle(t *testing.T) {
	svc, db := newSQLiteService(t, "")
	ctx := context.Background()

	u, err := svc.SaveUser(ctx, &models.User{Name: "alice"})
	require.NoError(t, err)

	_, err = svc.SetProfile(ctx, u.ID, "first")
	require.NoError(t, err)
	p, err := svc.SetProfile(ctx, u.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", p.Description)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, "social_profiles"))

	post, err := svc.CreatePost(ctx, u.ID, "hello")
	require.NoError(t, err)
	require.NotNil(t, post.Author())

	g, err := svc.CreateGroup(ctx, "gophers")
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, u.ID, g.ID)
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, "user_group"))

	detail, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, "second", detail.Profile.Description)
	assert.Len(t, detail.Posts, 1)
	require.Len(t, detail.Groups, 1)
	assert.Equal(t, "gophers", detail.Groups[0].Name)

	left, err := svc.LeaveGroup(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Empty(t, left.Members())
	assert.Equal(t, int64(0), testutil.CountRows(t, db, "user_group"))

	require.NoError(t, svc.DeleteUser(ctx, u.ID))
	assert.True(t, models.IsNotFound(svc.DeleteUser(ctx, u.ID)))

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].Author())
}

func TestSocialService_GetUser_CacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	svc, db := newSQLiteService(t, "user_cache=on")
	ctx := context.Background()

	u, err := svc.SaveUser(ctx, &models.User{Name: "alice"})
	require.NoError(t, err)

	first, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Name)
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))

	// a write behind the service's back is not visible until invalidation
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("name", "changed").Error)
	cached, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", cached.Name)

	u.Name = "renamed"
	_, err = svc.SaveUser(ctx, u)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.UserKey(u.ID)))

	fresh, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", fresh.Name)
}
