package models

import "time"

// Message represents a directed communication between two users. Messages are
// immutable once sent; they can only be deleted.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"from_user_id"` // foreign key to users table
	FromUser   User      `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID   uint      `gorm:"not null;index" json:"to_user_id"` // foreign key to users table
	ToUser     User      `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	SentAt     time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
