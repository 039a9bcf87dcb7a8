package database

import "socialmedia/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before the tables that reference them.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Profile{},
		&models.Post{},
		&models.Membership{},
	}
}
