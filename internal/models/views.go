package models

// UserDetail is the read model of a user together with its relations. It is
// what the single-user endpoint returns and what the user cache stores.
type UserDetail struct {
	User
	Profile *Profile `json:"profile,omitempty"`
	Posts   []*Post  `json:"posts"`
	Groups  []*Group `json:"groups"`
}

// NewUserDetail flattens u's in-memory relations into a UserDetail.
func NewUserDetail(u *User) *UserDetail {
	return &UserDetail{
		User:    User{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt},
		Profile: u.profile,
		Posts:   u.Posts(),
		Groups:  u.Groups(),
	}
}
