package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAnonymous(t *testing.T) {
	for _, role := range []Role{RoleAny, RoleUser, RoleAdmin} {
		_, err := Require(Anonymous(), role)
		assert.ErrorIs(t, err, ErrUnauthenticated, string(role))
	}
}

func TestRequireUser(t *testing.T) {
	s := New(Principal{UserID: 42, Handle: "alice"})

	p, err := Require(s, RoleUser)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), p.UserID)

	// a plain user cannot satisfy the admin role
	_, err = Require(s, RoleAdmin)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRequireAdmin(t *testing.T) {
	s := New(Principal{UserID: 1, Handle: "root", Admin: true})

	p, err := Require(s, RoleAdmin)
	assert.NoError(t, err)
	assert.True(t, p.Admin)

	// admins satisfy the user role too
	_, err = Require(s, RoleUser)
	assert.NoError(t, err)
}

func TestAnonymousHasNoPrincipal(t *testing.T) {
	_, ok := Anonymous().Principal()
	assert.False(t, ok)

	p, ok := New(Principal{UserID: 7}).Principal()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), p.UserID)
}
