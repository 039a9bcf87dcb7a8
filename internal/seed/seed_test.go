package seed

import (
	"context"
	"testing"

	"socialmedia/internal/models"
	"socialmedia/internal/repository"
	"socialmedia/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtures(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	set, err := NewSeeder(db).Fixtures(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), testutil.CountRows(t, db, "social_users"))
	assert.Equal(t, int64(2), testutil.CountRows(t, db, "social_groups"))
	assert.Equal(t, int64(3), testutil.CountRows(t, db, "posts"))
	assert.Equal(t, int64(3), testutil.CountRows(t, db, "social_profiles"))
	assert.Equal(t, int64(4), testutil.CountRows(t, db, "user_group"))

	// bob is in both groups
	bob := set.Users[1]
	assert.Equal(t, int64(2), testutil.CountRows(t, db, "user_group", "user_id = ?", bob.ID))

	loaded, err := repository.NewUserRepository(db).FindByID(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile())
	assert.Equal(t, "about bob", loaded.Profile().Description)
	assert.Len(t, loaded.Posts(), 1)
	assert.Len(t, loaded.Groups(), 2)

	for _, u := range set.Users {
		added, removed := u.PendingGroups()
		assert.Empty(t, added)
		assert.Empty(t, removed)
	}
}

func TestFixtures_SecondRunAddsRows(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	s := NewSeeder(db)

	_, err := s.Fixtures(ctx)
	require.NoError(t, err)
	_, err = s.Fixtures(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(6), testutil.CountRows(t, db, "social_users"))
	assert.Equal(t, int64(8), testutil.CountRows(t, db, "user_group"))
}

func TestRandom(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	users, err := NewSeeder(db).Random(ctx, RandomOptions{
		Users:         5,
		Groups:        2,
		PostsPerUser:  2,
		MembershipPct: 100,
		Seed:          42,
	})
	require.NoError(t, err)
	require.Len(t, users, 5)

	assert.Equal(t, int64(5), testutil.CountRows(t, db, "social_profiles"))
	assert.Equal(t, int64(10), testutil.CountRows(t, db, "user_group"))
	posts := testutil.CountRows(t, db, "posts")
	assert.GreaterOrEqual(t, posts, int64(5))
	assert.LessOrEqual(t, posts, int64(10))

	for _, u := range users {
		assert.NotEmpty(t, u.Name)
		assert.NotNil(t, u.Profile())
	}
}

func TestClearAll(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	s := NewSeeder(db)

	_, err := s.Fixtures(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, table := range []string{"social_users", "social_groups", "posts", "social_profiles", "user_group"} {
		assert.Equal(t, int64(0), testutil.CountRows(t, db, table), table)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	assert.Empty(t, users)
}
