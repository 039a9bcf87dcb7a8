package models

import "time"

// Profile holds a user's description. It owns the 1:1 relation: the
// user_id column lives here and is unique.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      *uint     `gorm:"uniqueIndex" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	user *User
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "social_profiles"
}

// User returns the owning user, or nil.
func (p *Profile) User() *User {
	return p.user
}
