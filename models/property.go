package models

import "time"

// Conventional property statuses. The column is free-form text, so other
// values are accepted and round-trip unchanged.
const (
	PropertyStatusAvailable = "Available"
	PropertyStatusSold      = "Sold"
)

// Property represents a real-estate listing
type Property struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Address     string          `json:"address"`
	Price       float64         `gorm:"not null" json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	Area        int             `json:"area"` // square meters
	Status      string          `gorm:"not null;default:'Available'" json:"status"`
	OwnerID     *uint           `gorm:"index" json:"owner_id"` // nullable, foreign key to users table
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Images      []PropertyImage `gorm:"foreignKey:PropertyID" json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Property model
func (Property) TableName() string {
	return "properties"
}

// OwnedBy reports whether the property belongs to the given user ID.
func (p *Property) OwnedBy(userID uint) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
