package models

import "time"

// Post is authored by exactly one user once persisted. The user_id column
// is nullable so that a user can be deleted without deleting its posts.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	UserID    *uint     `gorm:"index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	author *User
}

// Author returns the post's user, or nil for a transient or orphaned post.
func (p *Post) Author() *User {
	return p.author
}
