// Package seed loads demo and test data. Nothing here runs on server start;
// it is invoked by cmd/seed, by bootstrap when fixtures are requested, and
// by tests.
package seed

import (
	"context"
	"fmt"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"
	"socialmedia/internal/repository"

	"gorm.io/gorm"
)

// Seeder writes seed data through the repositories so that seeded rows obey
// the same save ordering as the API.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	groups   repository.GroupRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		profiles: repository.NewProfileRepository(db),
		posts:    repository.NewPostRepository(db),
		groups:   repository.NewGroupRepository(db),
	}
}

// FixtureSet is what Fixtures stored.
type FixtureSet struct {
	Users    []*models.User
	Groups   []*models.Group
	Posts    []*models.Post
	Profiles []*models.Profile
}

// Fixtures stores three users, two groups, three posts and three profiles
// with every relation type linked at least once, then reads the first user
// back as a smoke check.
//
// Save order: users, groups (writes user_group rows), users again (no new
// rows, the pairs are already synced), posts, profiles.
func (s *Seeder) Fixtures(ctx context.Context) (*FixtureSet, error) {
	set := &FixtureSet{
		Users: []*models.User{
			{Name: "alice"},
			{Name: "bob"},
			{Name: "carol"},
		},
		Groups: []*models.Group{
			{Name: "book club"},
			{Name: "hiking"},
		},
	}
	u1, u2, u3 := set.Users[0], set.Users[1], set.Users[2]
	g1, g2 := set.Groups[0], set.Groups[1]

	for _, u := range set.Users {
		if err := s.users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("save user %q: %w", u.Name, err)
		}
	}

	models.AddMember(g1, u1)
	models.AddMember(g1, u2)
	models.AddMember(g2, u2)
	models.AddMember(g2, u3)
	for _, g := range set.Groups {
		if err := s.groups.Save(ctx, g); err != nil {
			return nil, fmt.Errorf("save group %q: %w", g.Name, err)
		}
	}

	for _, u := range set.Users {
		if err := s.users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("resave user %q: %w", u.Name, err)
		}
	}

	for _, u := range set.Users {
		p := &models.Post{Content: fmt.Sprintf("first post by %s", u.Name)}
		models.AssignAuthor(p, u)
		if err := s.posts.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save post: %w", err)
		}
		set.Posts = append(set.Posts, p)
	}

	for _, u := range set.Users {
		p := &models.Profile{Description: fmt.Sprintf("about %s", u.Name)}
		models.AttachProfile(u, p)
		if err := s.profiles.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
		set.Profiles = append(set.Profiles, p)
	}

	if _, err := s.users.FindByID(ctx, u1.ID); err != nil {
		return nil, fmt.Errorf("smoke check user %d: %w", u1.ID, err)
	}

	observability.Logger().InfoContext(ctx, "fixtures loaded",
		"users", len(set.Users), "groups", len(set.Groups),
		"posts", len(set.Posts), "profiles", len(set.Profiles))
	return set, nil
}

// ClearAll removes every row of the social tables.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE user_group, posts, social_profiles, social_groups, social_users RESTART IDENTITY CASCADE`).Error
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"user_group", "posts", "social_profiles", "social_groups", "social_users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
