// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a member of the social network.
//
// Relations are held in memory only and are changed through the link
// operations in links.go. The storage layer persists them from the owning
// side (Profile, Post) or through the user_group join table.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	profile *Profile
	posts   []*Post
	groups  []*Group
	// group IDs known to be present in user_group for this user
	syncedGroups map[uint]struct{}
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "social_users"
}

// Profile returns the attached profile, or nil.
func (u *User) Profile() *Profile {
	return u.profile
}

// Posts returns a copy of the user's authored posts.
func (u *User) Posts() []*Post {
	out := make([]*Post, len(u.posts))
	copy(out, u.posts)
	return out
}

// Groups returns a copy of the groups the user belongs to.
func (u *User) Groups() []*Group {
	out := make([]*Group, len(u.groups))
	copy(out, u.groups)
	return out
}

// InGroup reports whether g is in the user's group set.
func (u *User) InGroup(g *Group) bool {
	return indexOf(u.groups, g) >= 0
}

// PendingGroups reports membership changes not yet written to storage.
// Groups without an identifier are skipped until they are saved.
func (u *User) PendingGroups() (added, removed []uint) {
	return pendingIDs(u.groups, u.syncedGroups, func(g *Group) uint { return g.ID })
}

// MarkGroupsSynced records the current group set as persisted. Each
// persisted group also records u as a synced member.
func (u *User) MarkGroupsSynced() {
	u.syncedGroups = syncedIDs(u.groups, func(g *Group) uint { return g.ID })
	if u.ID == 0 {
		return
	}
	for _, g := range u.groups {
		if g.ID == 0 {
			continue
		}
		if g.syncedMembers == nil {
			g.syncedMembers = make(map[uint]struct{})
		}
		g.syncedMembers[u.ID] = struct{}{}
	}
}
