package models

import "sort"

// AttachProfile links u and p on both sides. A profile previously attached
// to u, and a user previously owning p, are detached first so the relation
// stays one-to-one.
func AttachProfile(u *User, p *Profile) {
	if u == nil || p == nil {
		return
	}
	if u.profile == p && p.user == u {
		return
	}
	if u.profile != nil {
		u.profile.user = nil
	}
	if p.user != nil {
		p.user.profile = nil
	}
	u.profile = p
	p.user = u
}

// DetachProfile unlinks u from its profile on both sides.
func DetachProfile(u *User) {
	if u == nil || u.profile == nil {
		return
	}
	u.profile.user = nil
	u.profile = nil
}

// AssignAuthor makes u the author of p, removing p from its previous
// author's post list. A nil u leaves p without an author.
func AssignAuthor(p *Post, u *User) {
	if p == nil || p.author == u {
		return
	}
	if prev := p.author; prev != nil {
		if i := indexOf(prev.posts, p); i >= 0 {
			prev.posts = removeAt(prev.posts, i)
		}
	}
	p.author = u
	if u != nil {
		u.posts = append(u.posts, p)
	}
}

// AddMember puts u in g's member set and g in u's group set.
func AddMember(g *Group, u *User) {
	if g == nil || u == nil {
		return
	}
	if indexOf(g.members, u) < 0 {
		g.members = append(g.members, u)
	}
	if indexOf(u.groups, g) < 0 {
		u.groups = append(u.groups, g)
	}
}

// RemoveMember takes u out of g's member set and g out of u's group set.
func RemoveMember(g *Group, u *User) {
	if g == nil || u == nil {
		return
	}
	if i := indexOf(g.members, u); i >= 0 {
		g.members = removeAt(g.members, i)
	}
	if i := indexOf(u.groups, g); i >= 0 {
		u.groups = removeAt(u.groups, i)
	}
}

func indexOf[T comparable](items []T, item T) int {
	for i, v := range items {
		if v == item {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func pendingIDs[T any](current []T, synced map[uint]struct{}, id func(T) uint) (added, removed []uint) {
	want := make(map[uint]struct{}, len(current))
	for _, item := range current {
		v := id(item)
		if v == 0 {
			continue
		}
		want[v] = struct{}{}
		if _, ok := synced[v]; !ok {
			added = append(added, v)
		}
	}
	for v := range synced {
		if _, ok := want[v]; !ok {
			removed = append(removed, v)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

func syncedIDs[T any](current []T, id func(T) uint) map[uint]struct{} {
	out := make(map[uint]struct{}, len(current))
	for _, item := range current {
		if v := id(item); v != 0 {
			out[v] = struct{}{}
		}
	}
	return out
}
