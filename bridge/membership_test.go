package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMembership(t *testing.T) {
	m := make(membership)

	assert.False(t, m.add("#test", "Alice"), "untracked channel")
	tracked, removed := m.remove("#test", "Alice")
	assert.False(t, tracked)
	assert.False(t, removed)

	m.replace("#Test", []string{"Alice", "Bob", "Alice"})
	members, ok := m.members("#TEST")
	assert.True(t, ok)
	assert.Equal(t, []string{"Alice", "Bob"}, members)

	assert.True(t, m.add("#test", "Carol"))
	tracked, removed = m.remove("#test", "alice")
	assert.True(t, tracked)
	assert.False(t, removed, "nicks are case sensitive")

	tracked, removed = m.remove("#test", "Alice")
	assert.True(t, tracked)
	assert.True(t, removed)

	m.drop("#test")
	_, ok = m.members("#test")
	assert.False(t, ok)
}

func TestMembershipRename(t *testing.T) {
	m := make(membership)
	m.replace("#b", []string{"Alice"})
	m.replace("#a", []string{"Alice", "Bob"})
	m.replace("#c", []string{"Bob"})

	assert.Equal(t, []string{"#a", "#b"}, m.rename("Alice", "Alicia"))

	members, _ := m.members("#a")
	assert.Equal(t, []string{"Alicia", "Bob"}, members)
	assert.Empty(t, m.rename("Nobody", "Somebody"))
}
