package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "properties", Property{}.TableName())
	assert.Equal(t, "property_images", PropertyImage{}.TableName())
	assert.Equal(t, "requests", Request{}.TableName())
	assert.Equal(t, "messages", Message{}.TableName())
}

func TestUserHasRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		role  string
		want  bool
	}{
		{"single role match", []string{RoleClient}, RoleClient, true},
		{"single role mismatch", []string{RoleClient}, RoleAgent, false},
		{"multiple roles", []string{RoleClient, RoleAgent}, RoleAgent, true},
		{"no roles", nil, RoleClient, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := User{Roles: datatypes.NewJSONSlice(tt.roles)}
			assert.Equal(t, tt.want, user.HasRole(tt.role))
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	admin := User{Roles: datatypes.NewJSONSlice([]string{RoleAdmin, RoleAgent})}
	client := User{Roles: datatypes.NewJSONSlice([]string{RoleClient})}

	assert.True(t, admin.IsAdmin())
	assert.False(t, client.IsAdmin())
}

func TestPropertyOwnedBy(t *testing.T) {
	ownerID := uint(7)
	owned := Property{OwnerID: &ownerID}
	orphan := Property{}

	assert.True(t, owned.OwnedBy(7))
	assert.False(t, owned.OwnedBy(8))
	assert.False(t, orphan.OwnedBy(7), "property without an owner is owned by nobody")
}
