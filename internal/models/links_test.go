package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachProfile_SetsBothSides(t *testing.T) {
	t.Parallel()

	u := &User{Name: "alice"}
	p := &Profile{Description: "hi"}

	AttachProfile(u, p)

	assert.Same(t, p, u.Profile())
	assert.Same(t, u, p.User())
}

func TestAttachProfile_ReplacesPreviousCounterparts(t *testing.T) {
	t.Parallel()

	alice := &User{Name: "alice"}
	bob := &User{Name: "bob"}
	first := &Profile{Description: "first"}
	second := &Profile{Description: "second"}

	AttachProfile(alice, first)
	AttachProfile(bob, second)

	// second moves from bob to alice; first is released
	AttachProfile(alice, second)

	assert.Same(t, second, alice.Profile())
	assert.Same(t, alice, second.User())
	assert.Nil(t, first.User())
	assert.Nil(t, bob.Profile())
}

func TestAttachProfile_Idempotent(t *testing.T) {
	t.Parallel()

	u := &User{}
	p := &Profile{}
	AttachProfile(u, p)
	AttachProfile(u, p)

	assert.Same(t, p, u.Profile())
	assert.Same(t, u, p.User())
}

func TestDetachProfile(t *testing.T) {
	t.Parallel()

	u := &User{}
	p := &Profile{}
	AttachProfile(u, p)

	DetachProfile(u)

	assert.Nil(t, u.Profile())
	assert.Nil(t, p.User())

	// no-op on a user without a profile
	DetachProfile(u)
	DetachProfile(nil)
}

func TestAssignAuthor_MovesPostBetweenUsers(t *testing.T) {
	t.Parallel()

	alice := &User{Name: "alice"}
	bob := &User{Name: "bob"}
	post := &Post{Content: "hello"}

	AssignAuthor(post, alice)
	require.Len(t, alice.Posts(), 1)
	assert.Same(t, alice, post.Author())

	AssignAuthor(post, bob)
	assert.Empty(t, alice.Posts())
	require.Len(t, bob.Posts(), 1)
	assert.Same(t, post, bob.Posts()[0])
	assert.Same(t, bob, post.Author())

	AssignAuthor(post, bob)
	assert.Len(t, bob.Posts(), 1)

	AssignAuthor(post, nil)
	assert.Empty(t, bob.Posts())
	assert.Nil(t, post.Author())
}

func TestAddMember_Symmetric(t *testing.T) {
	t.Parallel()

	g := &Group{Name: "go"}
	u := &User{Name: "alice"}

	AddMember(g, u)
	AddMember(g, u)

	assert.True(t, g.HasMember(u))
	assert.True(t, u.InGroup(g))
	assert.Len(t, g.Members(), 1)
	assert.Len(t, u.Groups(), 1)
}

func TestRemoveMember_Symmetric(t *testing.T) {
	t.Parallel()

	g := &Group{Name: "go"}
	alice := &User{Name: "alice"}
	bob := &User{Name: "bob"}
	AddMember(g, alice)
	AddMember(g, bob)

	RemoveMember(g, alice)

	assert.False(t, g.HasMember(alice))
	assert.False(t, alice.InGroup(g))
	assert.True(t, g.HasMember(bob))
	assert.True(t, bob.InGroup(g))
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	g := &Group{ID: 1}
	u := &User{ID: 1}
	AddMember(g, u)

	groups := u.Groups()
	groups[0] = nil
	members := g.Members()
	members[0] = nil

	assert.True(t, u.InGroup(g))
	assert.True(t, g.HasMember(u))
}

func TestPendingGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(u *User)
		wantAdded   []uint
		wantRemoved []uint
	}{
		{
			name:  "nothing linked",
			setup: func(u *User) {},
		},
		{
			name: "new persisted group",
			setup: func(u *User) {
				AddMember(&Group{ID: 7}, u)
			},
			wantAdded: []uint{7},
		},
		{
			name: "transient group deferred",
			setup: func(u *User) {
				AddMember(&Group{Name: "draft"}, u)
			},
		},
		{
			name: "synced then removed",
			setup: func(u *User) {
				g1 := &Group{ID: 1}
				g2 := &Group{ID: 2}
				AddMember(g1, u)
				AddMember(g2, u)
				u.MarkGroupsSynced()
				RemoveMember(g2, u)
			},
			wantRemoved: []uint{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := &User{ID: 1}
			tt.setup(u)
			added, removed := u.PendingGroups()
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestPendingMembers_ClearedAfterSync(t *testing.T) {
	t.Parallel()

	g := &Group{ID: 3}
	AddMember(g, &User{ID: 10})
	AddMember(g, &User{ID: 11})

	added, _ := g.PendingMembers()
	assert.ElementsMatch(t, []uint{10, 11}, added)

	g.MarkMembersSynced()
	added, removed := g.PendingMembers()
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestMarkMembersSynced_MarksCounterpart(t *testing.T) {
	t.Parallel()

	g := &Group{ID: 1}
	u := &User{ID: 2}
	AddMember(g, u)

	g.MarkMembersSynced()

	added, removed := u.PendingGroups()
	assert.Empty(t, added)
	assert.Empty(t, removed)

	// removal is now visible from the user side too
	RemoveMember(g, u)
	_, removed = u.PendingGroups()
	assert.Equal(t, []uint{1}, removed)
}
