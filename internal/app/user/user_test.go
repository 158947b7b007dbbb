package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyRole(t *testing.T) {
	admin := User{Roles: []string{RoleUser, RoleAdmin}}
	plain := User{Roles: []string{RoleUser}}

	assert.True(t, admin.HasAnyRole(RoleAdmin))
	assert.True(t, admin.HasAnyRole(RoleSuperUser, RoleAdmin))
	assert.False(t, plain.HasAnyRole(RoleAdmin, RoleSuperUser))
	assert.True(t, plain.HasAnyRole(), "no roles required")
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"test1@google.com", "a.b+c@shop.example"} {
		assert.True(t, ValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "Name <a@b.co>", "a@@b.co"} {
		assert.False(t, ValidEmail(bad), bad)
	}
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Abc123"))
	assert.True(t, ValidPassword("Abcdef!"))

	assert.False(t, ValidPassword("Ab1"), "too short")
	assert.False(t, ValidPassword("abcdef1"), "no uppercase")
	assert.False(t, ValidPassword("ABCDEF1"), "no lowercase")
	assert.False(t, ValidPassword("Abcdefg"), "no digit or symbol")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "test1@google.com", NormalizeEmail("  Test1@Google.COM "))
}

func TestValidFullName(t *testing.T) {
	assert.True(t, ValidFullName("Test One"))
	assert.False(t, ValidFullName("   "))
}
