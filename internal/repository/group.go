package repository

import (
	"context"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"

	"gorm.io/gorm"
)

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	// Save inserts or updates g and writes its pending memberships for
	// persisted users in the same transaction.
	Save(ctx context.Context, g *models.Group) error
	// FindByID returns the group with stubs of its members.
	FindByID(ctx context.Context, id uint) (*models.Group, error)
	FindAll(ctx context.Context) ([]*models.Group, error)
	// Delete removes g and its memberships.
	Delete(ctx context.Context, g *models.Group) error
}

type groupRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGroupRepository returns a new GroupRepository implementation.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db, log: observability.NewRepoLogger(groupsTable)}
}

func (r *groupRepository) Save(ctx context.Context, g *models.Group) (err error) {
	ctx, end := instrument(ctx, groupsTable, "save")
	defer end(&err)

	op := "update"
	if g.ID == 0 {
		op = "create"
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if op == "create" {
			if err := tx.Create(g).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(g).Select("name", "updated_at").Updates(g)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("Group", g.ID)
			}
		}

		added, removed := g.PendingMembers()
		return writeMemberships(tx, groupPairs(g.ID, added), groupPairs(g.ID, removed))
	})
	if err != nil {
		r.log.LogError(ctx, err, op)
		return asAppError(err)
	}

	g.MarkMembersSynced()
	r.log.LogWrite(ctx, op, g.ID)
	return nil
}

func groupPairs(groupID uint, userIDs []uint) []models.Membership {
	out := make([]models.Membership, 0, len(userIDs))
	for _, uid := range userIDs {
		out = append(out, models.Membership{UserID: uid, GroupID: groupID})
	}
	return out
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (g *models.Group, err error) {
	ctx, end := instrument(ctx, groupsTable, "find_by_id")
	defer end(&err)

	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, notFoundOr(err, "Group", id)
	}
	if err := hydrateGroups(ctx, r.db, []*models.Group{&group}); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) FindAll(ctx context.Context) (groups []*models.Group, err error) {
	ctx, end := instrument(ctx, groupsTable, "find_all")
	defer end(&err)

	if err := r.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := hydrateGroups(ctx, r.db, groups); err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *groupRepository) Delete(ctx context.Context, g *models.Group) (err error) {
	ctx, end := instrument(ctx, groupsTable, "delete")
	defer end(&err)

	if g.ID == 0 {
		return models.ErrTransientReference
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", g.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, g.ID).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}

	for _, u := range g.Members() {
		models.RemoveMember(g, u)
	}
	g.MarkMembersSynced()
	r.log.LogWrite(ctx, "delete", g.ID)
	return nil
}
