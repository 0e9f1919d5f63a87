package models

import "time"

// PropertyImage represents one stored photo of a property. The blob lives in
// the image store under StorageKey; URL is a presigned link computed on read.
type PropertyImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"` // foreign key to properties table
	Property   Property  `gorm:"foreignKey:PropertyID" json:"-"`
	StorageKey string    `gorm:"not null" json:"storage_key"`
	URL        string    `gorm:"-" json:"url,omitempty"` // computed field, presigned URL for the blob
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the PropertyImage model
func (PropertyImage) TableName() string {
	return "property_images"
}
