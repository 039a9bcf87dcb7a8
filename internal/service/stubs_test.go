package service

import (
	"context"
	"errors"
	"testing"

	"socialmedia/internal/models"

	"github.com/stretchr/testify/require"
)

var errUnexpectedCall = errors.New("unexpected repository call")

type userRepoStub struct {
	saveFn     func(context.Context, *models.User) error
	findByIDFn func(context.Context, uint) (*models.User, error)
	findAllFn  func(context.Context) ([]*models.User, error)
	deleteFn   func(context.Context, *models.User) error
}

func (s *userRepoStub) Save(ctx context.Context, u *models.User) error {
	return s.saveFn(ctx, u)
}
func (s *userRepoStub) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findByIDFn(ctx, id)
}
func (s *userRepoStub) FindAll(ctx context.Context) ([]*models.User, error) {
	return s.findAllFn(ctx)
}
func (s *userRepoStub) Delete(ctx context.Context, u *models.User) error {
	return s.deleteFn(ctx, u)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		saveFn:     func(context.Context, *models.User) error { return errUnexpectedCall },
		findByIDFn: func(context.Context, uint) (*models.User, error) { return nil, errUnexpectedCall },
		findAllFn:  func(context.Context) ([]*models.User, error) { return nil, errUnexpectedCall },
		deleteFn:   func(context.Context, *models.User) error { return errUnexpectedCall },
	}
}

type profileRepoStub struct {
	saveFn func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) Save(ctx context.Context, p *models.Profile) error {
	return s.saveFn(ctx, p)
}
func (s *profileRepoStub) FindByID(context.Context, uint) (*models.Profile, error) {
	return nil, errUnexpectedCall
}
func (s *profileRepoStub) FindAll(context.Context) ([]*models.Profile, error) {
	return nil, errUnexpectedCall
}
func (s *profileRepoStub) Delete(context.Context, *models.Profile) error {
	return errUnexpectedCall
}

type postRepoStub struct {
	saveFn    func(context.Context, *models.Post) error
	findAllFn func(context.Context) ([]*models.Post, error)
}

func (s *postRepoStub) Save(ctx context.Context, p *models.Post) error {
	return s.saveFn(ctx, p)
}
func (s *postRepoStub) FindByID(context.Context, uint) (*models.Post, error) {
	return nil, errUnexpectedCall
}
func (s *postRepoStub) FindAll(ctx context.Context) ([]*models.Post, error) {
	return s.findAllFn(ctx)
}
func (s *postRepoStub) Delete(context.Context, *models.Post) error {
	return errUnexpectedCall
}

type groupRepoStub struct {
	saveFn     func(context.Context, *models.Group) error
	findByIDFn func(context.Context, uint) (*models.Group, error)
	findAllFn  func(context.Context) ([]*models.Group, error)
}

func (s *groupRepoStub) Save(ctx context.Context, g *models.Group) error {
	return s.saveFn(ctx, g)
}
func (s *groupRepoStub) FindByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.findByIDFn(ctx, id)
}
func (s *groupRepoStub) FindAll(ctx context.Context) ([]*models.Group, error) {
	return s.findAllFn(ctx)
}
func (s *groupRepoStub) Delete(context.Context, *models.Group) error {
	return errUnexpectedCall
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		saveFn:     func(context.Context, *models.Group) error { return errUnexpectedCall },
		findByIDFn: func(context.Context, uint) (*models.Group, error) { return nil, errUnexpectedCall },
		findAllFn:  func(context.Context) ([]*models.Group, error) { return nil, errUnexpectedCall },
	}
}

func newStubService(users *userRepoStub, groups *groupRepoStub) *SocialService {
	if users == nil {
		users = noopUserRepo()
	}
	if groups == nil {
		groups = noopGroupRepo()
	}
	return NewSocialService(
		users,
		&profileRepoStub{saveFn: func(context.Context, *models.Profile) error { return errUnexpectedCall }},
		&postRepoStub{
			saveFn:    func(context.Context, *models.Post) error { return errUnexpectedCall },
			findAllFn: func(context.Context) ([]*models.Post, error) { return nil, errUnexpectedCall },
		},
		groups,
		nil,
	)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.IsValidation(err), "expected validation error, got %v", err)
}
