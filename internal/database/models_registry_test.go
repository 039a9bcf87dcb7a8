package database

import (
	"testing"

	"socialmedia/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPersistentModels_IncludesJoinTable(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*models.Membership); ok {
			found = true
		}
	}
	assert.True(t, found, "PersistentModels should include Membership")
	assert.Len(t, PersistentModels(), 5)
}
