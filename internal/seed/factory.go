package seed

import (
	"context"
	"fmt"

	"socialmedia/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// RandomOptions sizes a generated data set.
type RandomOptions struct {
	Users         int
	Groups        int
	PostsPerUser  int
	MembershipPct int // chance, 0..100, that a user joins each group
	Seed          int64
}

// Random stores gofakeit-generated users, each with a profile, up to
// PostsPerUser posts and random group memberships. The same Seed produces
// the same data.
func (s *Seeder) Random(ctx context.Context, opts RandomOptions) ([]*models.User, error) {
	faker := gofakeit.New(opts.Seed)
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 3
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		g := &models.Group{Name: faker.Company()}
		if err := s.groups.Save(ctx, g); err != nil {
			return nil, fmt.Errorf("save group: %w", err)
		}
		groups = append(groups, g)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{Name: faker.Name()}
		for _, g := range groups {
			if faker.Number(1, 100) <= opts.MembershipPct {
				models.AddMember(g, u)
			}
		}
		// writes memberships for the already saved groups
		if err := s.users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}

		profile := &models.Profile{Description: faker.Sentence(12)}
		models.AttachProfile(u, profile)
		if err := s.profiles.Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}

		for n := faker.Number(1, opts.PostsPerUser); n > 0; n-- {
			post := &models.Post{Content: faker.Paragraph(1, 3, 12, " ")}
			models.AssignAuthor(post, u)
			if err := s.posts.Save(ctx, post); err != nil {
				return nil, fmt.Errorf("save post: %w", err)
			}
		}
		users = append(users, u)
	}

	return users, nil
}
