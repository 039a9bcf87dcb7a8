package models

import "time"

// Group is a named set of users. Membership rows live in the user_group
// join table; see Membership.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	members       []*User
	syncedMembers map[uint]struct{}
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "social_groups"
}

// Members returns a copy of the group's member set.
func (g *Group) Members() []*User {
	out := make([]*User, len(g.members))
	copy(out, g.members)
	return out
}

// HasMember reports whether u is in the group's member set.
func (g *Group) HasMember(u *User) bool {
	return indexOf(g.members, u) >= 0
}

// PendingMembers reports membership changes not yet written to storage.
func (g *Group) PendingMembers() (added, removed []uint) {
	return pendingIDs(g.members, g.syncedMembers, func(u *User) uint { return u.ID })
}

// MarkMembersSynced records the current member set as persisted. Each
// persisted member also records g as a synced group.
func (g *Group) MarkMembersSynced() {
	g.syncedMembers = syncedIDs(g.members, func(u *User) uint { return u.ID })
	if g.ID == 0 {
		return
	}
	for _, u := range g.members {
		if u.ID == 0 {
			continue
		}
		if u.syncedGroups == nil {
			u.syncedGroups = make(map[uint]struct{})
		}
		u.syncedGroups[g.ID] = struct{}{}
	}
}

// Membership is a row of the user_group join table.
type Membership struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Membership) TableName() string {
	return "user_group"
}
