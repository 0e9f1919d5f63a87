package services

import (
	"log"

	"gorm.io/gorm"

	"github.com/YassineBen-Yahia/realestate-api/models"
)

// CascadeService coordinates multi-entity deletion so that no row is left
// referencing a removed parent. Backing blobs are removed first and
// best-effort; row deletion then runs inside a single transaction, children
// before parents.
type CascadeService struct {
	db     *gorm.DB
	images ImageService
}

var cascadeServiceInstance *CascadeService

// InitCascadeService initializes the cascade service
func InitCascadeService(db *gorm.DB, images ImageService) *CascadeService {
	cascadeServiceInstance = &CascadeService{db: db, images: images}
	return cascadeServiceInstance
}

// GetCascadeService returns the initialized cascade service instance
func GetCascadeService() *CascadeService {
	return cascadeServiceInstance
}

// SetCascadeService sets the cascade service instance (primarily for testing)
func SetCascadeService(s *CascadeService) {
	cascadeServiceInstance = s
}

// DeleteProperty removes a property together with its images (blobs and
// rows) and every request filed against it.
func (s *CascadeService) DeleteProperty(propertyID uint) error {
	var images []models.PropertyImage
	if err := s.db.Where("property_id = ?", propertyID).Find(&images).Error; err != nil {
		return err
	}

	s.deleteBlobs(images)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, propertyID).Error
	})
}

// DeleteUser removes a user and everything that exists only in reference to
// them: owned properties with their images and requests, requests the user
// filed elsewhere, and all messages they sent or received. Afterwards no
// foreign key points at the deleted user.
func (s *CascadeService) DeleteUser(userID uint) error {
	var propertyIDs []uint
	if err := s.db.Model(&models.Property{}).
		Where("owner_id = ?", userID).
		Pluck("id", &propertyIDs).Error; err != nil {
		return err
	}

	var images []models.PropertyImage
	if len(propertyIDs) > 0 {
		if err := s.db.Where("property_id IN ?", propertyIDs).Find(&images).Error; err != nil {
			return err
		}
	}

	s.deleteBlobs(images)

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Requests the user filed, plus requests targeting their properties
		if err := tx.Where("user_id = ?", userID).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if len(propertyIDs) > 0 {
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.Request{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.PropertyImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", propertyIDs).Delete(&models.Property{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

// DeleteImage removes a single property image: blob first (best-effort),
// then the row.
func (s *CascadeService) DeleteImage(image *models.PropertyImage) error {
	if err := s.images.DeleteImage(image.StorageKey); err != nil {
		log.Printf("warning: failed to delete image blob %s: %v", image.StorageKey, err)
	}
	return s.db.Delete(&models.PropertyImage{}, image.ID).Error
}

// deleteBlobs removes backing files for the given image rows. Failures are
// logged and swallowed; a missing blob must never block row cleanup.
func (s *CascadeService) deleteBlobs(images []models.PropertyImage) {
	for _, img := range images {
		if err := s.images.DeleteImage(img.StorageKey); err != nil {
			log.Printf("warning: failed to delete image blob %s: %v", img.StorageKey, err)
		}
	}
}
