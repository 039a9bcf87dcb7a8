package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSON_OmitsRelations(t *testing.T) {
	u := &User{ID: 1, Name: "alice"}
	p := &Profile{ID: 2, Description: "hi"}
	AttachProfile(u, p)
	AddMember(&Group{ID: 3, Name: "go"}, u)

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(1), out["id"])
	assert.NotContains(t, out, "profile")
	assert.NotContains(t, out, "groups")
	assert.NotContains(t, out, "posts")

	raw, err = json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "user")
}

func TestNewUserDetail(t *testing.T) {
	u := &User{ID: 1, Name: "alice"}
	AttachProfile(u, &Profile{ID: 2, Description: "hi"})
	AssignAuthor(&Post{ID: 4, Content: "first"}, u)
	AddMember(&Group{ID: 3, Name: "go"}, u)

	d := NewUserDetail(u)
	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var back UserDetail
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, uint(1), back.ID)
	assert.Equal(t, "alice", back.Name)
	require.NotNil(t, back.Profile)
	assert.Equal(t, "hi", back.Profile.Description)
	require.Len(t, back.Posts, 1)
	assert.Equal(t, "first", back.Posts[0].Content)
	require.Len(t, back.Groups, 1)
	assert.Equal(t, "go", back.Groups[0].Name)
}
