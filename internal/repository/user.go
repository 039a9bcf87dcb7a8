package repository

import (
	"context"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Save inserts u when it has no ID, otherwise updates it. In the same
	// transaction it writes pending memberships for persisted groups, moves
	// the attached profile's foreign key to u, and claims u's persisted posts.
	Save(ctx context.Context, u *models.User) error
	// FindByID returns the user with its profile, posts and group stubs.
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// FindAll returns every user row without loading relations.
	FindAll(ctx context.Context) ([]*models.User, error)
	// Delete removes u, its memberships and its profile. Its posts are kept
	// with no owner.
	Delete(ctx context.Context, u *models.User) error
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger(usersTable)}
}

func (r *userRepository) Save(ctx context.Context, u *models.User) (err error) {
	ctx, end := instrument(ctx, usersTable, "save")
	defer end(&err)

	op := "update"
	if u.ID == 0 {
		op = "create"
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if op == "create" {
			if err := tx.Create(u).Error; err != nil {
				return models.NewInternalError(err)
			}
		} else {
			res := tx.Model(u).Select("name", "updated_at").Updates(u)
			if res.Error != nil {
				return models.NewInternalError(res.Error)
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("User", u.ID)
			}
		}

		added, removed := u.PendingGroups()
		if err := writeMemberships(tx, userPairs(u.ID, added), userPairs(u.ID, removed)); err != nil {
			return models.NewInternalError(err)
		}

		if p := u.Profile(); p != nil && p.ID != 0 {
			if err := claimProfile(tx, u.ID, p); err != nil {
				return err
			}
		}

		var postIDs []uint
		for _, p := range u.Posts() {
			if p.ID != 0 {
				postIDs = append(postIDs, p.ID)
			}
		}
		if len(postIDs) > 0 {
			if err := tx.Model(&models.Post{}).Where("id IN ?", postIDs).Update("user_id", u.ID).Error; err != nil {
				return models.NewInternalError(err)
			}
			for _, p := range u.Posts() {
				if p.ID != 0 {
					p.UserID = &u.ID
				}
			}
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, op)
		return asAppError(err)
	}

	u.MarkGroupsSynced()
	r.log.LogWrite(ctx, op, u.ID)
	return nil
}

// claimProfile points p at userID, releasing any other profile that
// referenced the user so the unique user_id index holds.
func claimProfile(tx *gorm.DB, userID uint, p *models.Profile) error {
	if err := tx.Model(&models.Profile{}).
		Where("user_id = ? AND id <> ?", userID, p.ID).
		Update("user_id", nil).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := tx.Model(&models.Profile{}).Where("id = ?", p.ID).Update("user_id", userID).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("user already has a profile")
		}
		return models.NewInternalError(err)
	}
	p.UserID = &userID
	return nil
}

func userPairs(userID uint, groupIDs []uint) []models.Membership {
	out := make([]models.Membership, 0, len(groupIDs))
	for _, gid := range groupIDs {
		out = append(out, models.Membership{UserID: userID, GroupID: gid})
	}
	return out
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (u *models.User, err error) {
	ctx, end := instrument(ctx, usersTable, "find_by_id")
	defer end(&err)

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	if err := hydrateUsers(ctx, r.db, []*models.User{&user}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) (users []*models.User, err error) {
	ctx, end := instrument(ctx, usersTable, "find_all")
	defer end(&err)

	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, u *models.User) (err error) {
	ctx, end := instrument(ctx, usersTable, "delete")
	defer end(&err)

	if u.ID == 0 {
		return models.ErrTransientReference
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("user_id = ?", u.ID).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, u.ID).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}

	for _, g := range u.Groups() {
		models.RemoveMember(g, u)
	}
	for _, p := range u.Posts() {
		models.AssignAuthor(p, nil)
		p.UserID = nil
	}
	if p := u.Profile(); p != nil {
		models.DetachProfile(u)
		p.UserID = nil
	}
	u.MarkGroupsSynced()

	r.log.LogWrite(ctx, "delete", u.ID)
	return nil
}
