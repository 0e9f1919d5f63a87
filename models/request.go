package models

import "time"

// Conventional request statuses. The column is free-form text: the property
// owner may set any status, and unknown values are stored as-is.
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusRejected = "Rejected"
)

// Request represents one user's inquiry on one property. PropertyID, UserID
// and CreatedAt are fixed at creation; only Status changes afterwards.
type Request struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"` // foreign key to properties table
	Property   Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	UserID     uint      `gorm:"not null;index" json:"user_id"` // the requester
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes"`
	Status     string    `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Request model
func (Request) TableName() string {
	return "requests"
}
