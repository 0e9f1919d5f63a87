package services

import (
	"github.com/YassineBen-Yahia/realestate-api/models"
)

// Actor is the identity an operation is attempted on behalf of. It is always
// passed explicitly; nothing in this package reads identity from ambient state.
type Actor struct {
	ID    uint
	Roles []string
}

// ActorFor builds an Actor from a resolved user record.
func ActorFor(user *models.User) Actor {
	return Actor{ID: user.ID, Roles: user.Roles}
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the Admin role.
func (a Actor) IsAdmin() bool {
	return a.HasRole(models.RoleAdmin)
}

// CanEditProperty reports whether the actor may edit the property.
// Every authenticated user may edit any listing (open moderation model,
// matching the original product decision).
func CanEditProperty(actor Actor, property *models.Property) bool {
	return true
}

// CanDeleteProperty reports whether the actor may delete the property.
// Same open rule as editing.
func CanDeleteProperty(actor Actor, property *models.Property) bool {
	return true
}

// CanDeletePropertyImage reports whether the actor may delete a single image
// of the property. Unlike property edits, this is restricted to the owner
// or an admin.
func CanDeletePropertyImage(actor Actor, property *models.Property) bool {
	return property.OwnedBy(actor.ID) || actor.IsAdmin()
}

// CanViewRequest reports whether the actor may view the request. The
// requester, the owner of the targeted property, and admins qualify.
// request.Property must be loaded.
func CanViewRequest(actor Actor, request *models.Request) bool {
	if request.UserID == actor.ID {
		return true
	}
	if request.Property.OwnedBy(actor.ID) {
		return true
	}
	return actor.IsAdmin()
}

// CanUpdateRequestStatus reports whether the actor may drive the request's
// status. Only the property owner and admins qualify; the requester cannot
// approve their own inquiry. request.Property must be loaded.
func CanUpdateRequestStatus(actor Actor, request *models.Request) bool {
	return request.Property.OwnedBy(actor.ID) || actor.IsAdmin()
}

// CanDeleteRequest reports whether the actor may delete the request. Only the
// requester and admins qualify.
func CanDeleteRequest(actor Actor, request *models.Request) bool {
	return request.UserID == actor.ID || actor.IsAdmin()
}

// CanViewMessage reports whether the actor may view the message. Only the two
// endpoints and admins qualify.
func CanViewMessage(actor Actor, message *models.Message) bool {
	return message.FromUserID == actor.ID || message.ToUserID == actor.ID || actor.IsAdmin()
}

// CanDeleteMessage reports whether the actor may delete the message. Same
// rule as viewing.
func CanDeleteMessage(actor Actor, message *models.Message) bool {
	return CanViewMessage(actor, message)
}

// CanReplyToMessage reports whether the actor may reply to the message.
// Only the recipient qualifies; not even admins may reply on another
// user's behalf.
func CanReplyToMessage(actor Actor, message *models.Message) bool {
	return message.ToUserID == actor.ID
}

// CanAccessAdminArea reports whether the actor may use the admin surface.
// adminRoles comes from configuration (default Admin only; Admin+Agent is the
// other deployed variant).
func CanAccessAdminArea(actor Actor, adminRoles []string) bool {
	for _, role := range adminRoles {
		if actor.HasRole(role) {
			return true
		}
	}
	return false
}
