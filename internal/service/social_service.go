// Package service holds the application use cases on top of the repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"socialmedia/internal/cache"
	"socialmedia/internal/featureflags"
	"socialmedia/internal/models"
	"socialmedia/internal/observability"
	"socialmedia/internal/repository"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 2000
	maxContentLen     = 5000
)

// SocialService runs the user, profile, post and group use cases. Every
// multi-entity change is written as an explicit sequence of saves with the
// parent saved before anything that references it.
type SocialService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	groups   repository.GroupRepository
	flags    *featureflags.Set
}

// NewSocialService wires the service. A nil flags set disables every flag.
func NewSocialService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	posts repository.PostRepository,
	groups repository.GroupRepository,
	flags *featureflags.Set,
) *SocialService {
	return &SocialService{
		users:    users,
		profiles: profiles,
		posts:    posts,
		groups:   groups,
		flags:    flags,
	}
}

func (s *SocialService) begin(ctx context.Context, method string) (context.Context, func(*error)) {
	ctx = observability.EnsureCorrelationID(ctx)
	ctx, span := observability.StartServiceSpan(ctx, "SocialService", method)
	return ctx, func(errp *error) { observability.EndSpan(span, *errp) }
}

// GetAllUsers returns every stored user.
func (s *SocialService) GetAllUsers(ctx context.Context) (users []*models.User, err error) {
	ctx, end := s.begin(ctx, "GetAllUsers")
	defer end(&err)

	return s.users.FindAll(ctx)
}

// SaveUser inserts u, or updates it when it already has an ID.
func (s *SocialService) SaveUser(ctx context.Context, u *models.User) (saved *models.User, err error) {
	ctx, end := s.begin(ctx, "SaveUser")
	defer end(&err)

	u.Name = strings.TrimSpace(u.Name)
	if utf8.RuneCountInString(u.Name) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 120 characters)")
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, u.ID)
	return u, nil
}

// DeleteUser removes the user with the given ID. It returns a NOT_FOUND
// error when no such user exists.
func (s *SocialService) DeleteUser(ctx context.Context, id uint) (err error) {
	ctx, end := s.begin(ctx, "DeleteUser")
	defer end(&err)

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u); err != nil {
		return err
	}

	cache.InvalidateUser(ctx, id)
	observability.Logger().InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// GetUser returns the user with its profile, posts and groups. With the
// user_cache flag on, the view is served through Redis.
func (s *SocialService) GetUser(ctx context.Context, id uint) (detail *models.UserDetail, err error) {
	ctx, end := s.begin(ctx, "GetUser")
	defer end(&err)

	load := func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		detail = models.NewUserDetail(u)
		return nil
	}

	if !s.flags.EnabledFor(featureflags.UserCache, id) {
		if err := load(ctx); err != nil {
			return nil, err
		}
		return detail, nil
	}

	var cached models.UserDetail
	err = cache.Aside(ctx, "user", cache.UserKey(id), &cached, cache.UserTTL, func(ctx context.Context) error {
		if err := load(ctx); err != nil {
			return err
		}
		cached = *detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetProfile creates or replaces the description of a user's profile.
func (s *SocialService) SetProfile(ctx context.Context, userID uint, description string) (p *models.Profile, err error) {
	ctx, end := s.begin(ctx, "SetProfile")
	defer end(&err)

	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 2000 characters)")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p = u.Profile()
	if p == nil {
		p = &models.Profile{}
		models.AttachProfile(u, p)
	}
	p.Description = description

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return p, nil
}

// CreatePost stores a new post authored by the given user.
func (s *SocialService) CreatePost(ctx context.Context, userID uint, content string) (post *models.Post, err error) {
	ctx, end := s.begin(ctx, "CreatePost")
	defer end(&err)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{Content: content}
	models.AssignAuthor(post, u)
	if err := s.posts.Save(ctx, post); err != nil {
		models.AssignAuthor(post, nil)
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return post, nil
}

// ListPosts returns every stored post.
func (s *SocialService) ListPosts(ctx context.Context) (posts []*models.Post, err error) {
	ctx, end := s.begin(ctx, "ListPosts")
	defer end(&err)

	return s.posts.FindAll(ctx)
}

// CreateGroup stores a new, empty group.
func (s *SocialService) CreateGroup(ctx context.Context, name string) (g *models.Group, err error) {
	ctx, end := s.begin(ctx, "CreateGroup")
	defer end(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 120 characters)")
	}

	g = &models.Group{Name: name}
	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGroups returns every stored group with its members.
func (s *SocialService) ListGroups(ctx context.Context) (groups []*models.Group, err error) {
	ctx, end := s.begin(ctx, "ListGroups")
	defer end(&err)

	return s.groups.FindAll(ctx)
}

// JoinGroup adds the user to the group. Joining twice is a no-op.
func (s *SocialService) JoinGroup(ctx context.Context, userID, groupID uint) (g *models.Group, err error) {
	ctx, end := s.begin(ctx, "JoinGroup")
	defer end(&err)

	g, err = s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if memberByID(g, userID) != nil {
		return g, nil
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	models.AddMember(g, u)
	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return g, nil
}

// LeaveGroup removes the user from the group.
func (s *SocialService) LeaveGroup(ctx context.Context, userID, groupID uint) (g *models.Group, err error) {
	ctx, end := s.begin(ctx, "LeaveGroup")
	defer end(&err)

	g, err = s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member := memberByID(g, userID)
	if member == nil {
		return nil, models.NewValidationError("User is not a member of this group")
	}

	models.RemoveMember(g, member)
	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return g, nil
}

func memberByID(g *models.Group, userID uint) *models.User {
	for _, m := range g.Members() {
		if m.ID == userID {
			return m
		}
	}
	return nil
}
