package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role names a user can hold. A user may hold several at once.
const (
	RoleAdmin  = "Admin"
	RoleAgent  = "Agent"
	RoleClient = "Client"
)

// User represents a registered marketplace user
type User struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Auth0ID   string                      `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	FirstName string                      `json:"first_name"`
	LastName  string                      `json:"last_name"`
	Email     string                      `gorm:"uniqueIndex;not null" json:"email"` // stored lower-cased
	Roles     datatypes.JSONSlice[string] `json:"roles"`                             // subset of {Admin, Agent, Client}
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
