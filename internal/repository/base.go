// Package repository implements the data access layer for the application.
//
// Saves follow a parents-before-dependents contract: a Profile or Post can
// only be saved once its User has an ID, and membership rows are written
// only for pairs where both the User and the Group have IDs. Pairs involving
// an unsaved entity stay pending and are written by a later save of either
// side.
package repository

import (
	"context"
	"errors"

	"socialmedia/internal/models"
	"socialmedia/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	usersTable    = "social_users"
	profilesTable = "social_profiles"
	postsTable    = "posts"
	groupsTable   = "social_groups"
)

// instrument opens a span and a latency timer for one repository call. The
// returned func must be deferred with a pointer to the call's error.
func instrument(ctx context.Context, table, operation string) (context.Context, func(*error)) {
	ctx, span := observability.StartRepositorySpan(ctx, operation, table)
	done := observability.TrackQuery(operation, table)
	return ctx, func(errp *error) {
		done()
		observability.EndSpan(span, *errp)
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// asAppError leaves AppErrors untouched and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *models.AppError
	if err == nil || errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

func notFoundOr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// writeMemberships inserts the add pairs, ignoring ones already present, and
// deletes exactly the remove pairs.
func writeMemberships(tx *gorm.DB, add, remove []models.Membership) error {
	if len(add) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&add).Error; err != nil {
			return err
		}
		observability.MembershipChanges.WithLabelValues("added").Add(float64(len(add)))
	}
	for _, m := range remove {
		if err := tx.Where("user_id = ? AND group_id = ?", m.UserID, m.GroupID).
			Delete(&models.Membership{}).Error; err != nil {
			return err
		}
	}
	if len(remove) > 0 {
		observability.MembershipChanges.WithLabelValues("removed").Add(float64(len(remove)))
	}
	return nil
}

// inBatchSize bounds the bind parameters of one IN list. sqlite allows 32766
// and postgres 65535 per statement.
const inBatchSize = 500

// findIn appends to dest every row whose column is in ids, querying at most
// inBatchSize ids per statement. Ordering applies within each batch.
func findIn[T any](ctx context.Context, db *gorm.DB, column string, ids []uint, order string, dest *[]T) error {
	for start := 0; start < len(ids); start += inBatchSize {
		end := min(start+inBatchSize, len(ids))
		q := db.WithContext(ctx).Where(column+" IN ?", ids[start:end])
		if order != "" {
			q = q.Order(order)
		}
		var batch []T
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		*dest = append(*dest, batch...)
	}
	return nil
}

func userIDs(users []*models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// hydrateUsers links each user to its stored profile, posts and groups.
// Groups are loaded as stubs whose member set holds only the users passed in.
func hydrateUsers(ctx context.Context, db *gorm.DB, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := userIDs(users)
	byID := make(map[uint]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	var profiles []*models.Profile
	if err := findIn(ctx, db, "user_id", ids, "", &profiles); err != nil {
		return err
	}
	for _, p := range profiles {
		if p.UserID != nil {
			models.AttachProfile(byID[*p.UserID], p)
		}
	}

	var posts []*models.Post
	if err := findIn(ctx, db, "user_id", ids, "id", &posts); err != nil {
		return err
	}
	for _, p := range posts {
		if p.UserID != nil {
			models.AssignAuthor(p, byID[*p.UserID])
		}
	}

	var rows []models.Membership
	if err := findIn(ctx, db, "user_id", ids, "group_id", &rows); err != nil {
		return err
	}
	groups, err := loadGroups(ctx, db, rows, func(m models.Membership) uint { return m.GroupID })
	if err != nil {
		return err
	}
	for _, m := range rows {
		if g := groups[m.GroupID]; g != nil {
			models.AddMember(g, byID[m.UserID])
		}
	}

	for _, u := range users {
		u.MarkGroupsSynced()
	}
	return nil
}

// hydrateGroups links each group to stub users for its stored members.
func hydrateGroups(ctx context.Context, db *gorm.DB, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(groups))
	byID := make(map[uint]*models.Group, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
		byID[g.ID] = g
	}

	var rows []models.Membership
	if err := findIn(ctx, db, "group_id", ids, "user_id", &rows); err != nil {
		return err
	}

	memberIDs := uniqueIDs(rows, func(m models.Membership) uint { return m.UserID })
	users := make(map[uint]*models.User, len(memberIDs))
	if len(memberIDs) > 0 {
		var found []*models.User
		if err := findIn(ctx, db, "id", memberIDs, "", &found); err != nil {
			return err
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	for _, m := range rows {
		if u := users[m.UserID]; u != nil {
			models.AddMember(byID[m.GroupID], u)
		}
	}
	for _, g := range groups {
		g.MarkMembersSynced()
	}
	return nil
}

func loadGroups(ctx context.Context, db *gorm.DB, rows []models.Membership, id func(models.Membership) uint) (map[uint]*models.Group, error) {
	ids := uniqueIDs(rows, id)
	out := make(map[uint]*models.Group, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []*models.Group
	if err := findIn(ctx, db, "id", ids, "", &found); err != nil {
		return nil, err
	}
	for _, g := range found {
		out[g.ID] = g
	}
	return out, nil
}

func uniqueIDs(rows []models.Membership, id func(models.Membership) uint) []uint {
	seen := make(map[uint]struct{}, len(rows))
	out := make([]uint, 0, len(rows))
	for _, m := range rows {
		v := id(m)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
