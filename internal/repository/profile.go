package repository

import (
	"context"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	// Save requires the profile's user to be persisted; it returns
	// models.ErrTransientReference otherwise.
	Save(ctx context.Context, p *models.Profile) error
	// FindByID returns the profile linked to a stub of its user.
	FindByID(ctx context.Context, id uint) (*models.Profile, error)
	FindAll(ctx context.Context) ([]*models.Profile, error)
	Delete(ctx context.Context, p *models.Profile) error
}

type profileRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db, log: observability.NewRepoLogger(profilesTable)}
}

func (r *profileRepository) Save(ctx context.Context, p *models.Profile) (err error) {
	ctx, end := instrument(ctx, profilesTable, "save")
	defer end(&err)

	owner := p.User()
	if owner == nil || owner.ID == 0 {
		return models.ErrTransientReference
	}
	userID := owner.ID

	op := "update"
	if p.ID == 0 {
		op = "create"
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// release whatever profile the user had before
		release := tx.Model(&models.Profile{}).Where("user_id = ?", userID)
		if p.ID != 0 {
			release = release.Where("id <> ?", p.ID)
		}
		if err := release.Update("user_id", nil).Error; err != nil {
			return err
		}

		p.UserID = &userID
		if op == "create" {
			return tx.Create(p).Error
		}
		res := tx.Model(p).Select("description", "user_id", "updated_at").Updates(p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Profile", p.ID)
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, op)
		if isUniqueConstraintError(err) {
			return models.NewValidationError("user already has a profile")
		}
		return asAppError(err)
	}

	r.log.LogWrite(ctx, op, p.ID, "user_id", userID)
	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uint) (p *models.Profile, err error) {
	ctx, end := instrument(ctx, profilesTable, "find_by_id")
	defer end(&err)

	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, notFoundOr(err, "Profile", id)
	}
	if err := r.linkOwners(ctx, []*models.Profile{&profile}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) FindAll(ctx context.Context) (profiles []*models.Profile, err error) {
	ctx, end := instrument(ctx, profilesTable, "find_all")
	defer end(&err)

	if err := r.db.WithContext(ctx).Order("id").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.linkOwners(ctx, profiles); err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) linkOwners(ctx context.Context, profiles []*models.Profile) error {
	owners, err := loadUsers(ctx, r.db, profiles, func(p *models.Profile) *uint { return p.UserID })
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.UserID != nil {
			models.AttachProfile(owners[*p.UserID], p)
		}
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, p *models.Profile) (err error) {
	ctx, end := instrument(ctx, profilesTable, "delete")
	defer end(&err)

	if p.ID == 0 {
		return models.ErrTransientReference
	}
	if err := r.db.WithContext(ctx).Delete(&models.Profile{}, p.ID).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}

	if u := p.User(); u != nil {
		models.DetachProfile(u)
	}
	p.UserID = nil
	r.log.LogWrite(ctx, "delete", p.ID)
	return nil
}

// loadUsers fetches the users referenced by items' nullable foreign keys.
func loadUsers[T any](ctx context.Context, db *gorm.DB, items []T, fk func(T) *uint) (map[uint]*models.User, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, item := range items {
		if id := fk(item); id != nil {
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}

	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*models.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
