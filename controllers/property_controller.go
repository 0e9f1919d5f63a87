package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
)

// PropertyForm represents the multipart form fields for creating or editing a
// listing. Photos arrive as the repeated "images" file field.
type PropertyForm struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description"`
	Address     string  `form:"address"`
	Price       float64 `form:"price" binding:"required,gt=0"`
	Bedrooms    int     `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   int     `form:"bathrooms" binding:"omitempty,gte=0"`
	Area        int     `form:"area" binding:"omitempty,gte=0"`
	Status      string  `form:"status"`
}

// ListProperties handles GET /api/v1/properties - public listing index
func ListProperties(c *gin.Context) {
	db := config.GetDB()

	var properties []models.Property
	if err := db.Preload("Images").Preload("Owner").
		Order("id DESC").
		Find(&properties).Error; err != nil {
		databaseError(c, "Failed to fetch properties")
		return
	}

	attachImageURLs(properties)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    properties,
	})
}

// GetProperty handles GET /api/v1/properties/:id - public listing details
func GetProperty(c *gin.Context) {
	db := config.GetDB()

	var property models.Property
	if err := db.Preload("Images").Preload("Owner").
		First(&property, c.Param("id")).Error; err != nil {
		notFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	for i := range property.Images {
		property.Images[i].URL = imageURLFor(property.Images[i].StorageKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    property,
	})
}

// CreateProperty handles POST /api/v1/properties - creates a listing owned by
// the caller, uploading any attached photos to the blob store
func CreateProperty(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var form PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		validationError(c, err.Error())
		return
	}

	status := form.Status
	if status == "" {
		status = models.PropertyStatusAvailable
	}

	property := models.Property{
		Title:       form.Title,
		Description: form.Description,
		Address:     form.Address,
		Price:       form.Price,
		Bedrooms:    form.Bedrooms,
		Bathrooms:   form.Bathrooms,
		Area:        form.Area,
		Status:      status,
		OwnerID:     &user.ID,
	}

	db := config.GetDB()
	if err := db.Create(&property).Error; err != nil {
		databaseError(c, "Failed to create property")
		return
	}

	if !uploadPropertyImages(c, &property) {
		return
	}

	if err := db.Preload("Images").Preload("Owner").First(&property, property.ID).Error; err != nil {
		databaseError(c, "Failed to load property details")
		return
	}
	for i := range property.Images {
		property.Images[i].URL = imageURLFor(property.Images[i].StorageKey)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    property,
	})
}

// UpdateProperty handles PUT /api/v1/properties/:id - edits listing fields
// and appends any newly attached photos. Every signed-in user may edit any
// listing; ownership is not checked here.
func UpdateProperty(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, c.Param("id")).Error; err != nil {
		notFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanEditProperty(actor, &property) {
		forbidden(c, "You do not have permission to edit this property")
		return
	}

	var form PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		validationError(c, err.Error())
		return
	}

	property.Title = form.Title
	property.Description = form.Description
	property.Address = form.Address
	property.Price = form.Price
	property.Bedrooms = form.Bedrooms
	property.Bathrooms = form.Bathrooms
	property.Area = form.Area
	if form.Status != "" {
		property.Status = form.Status
	}

	if err := db.Save(&property).Error; err != nil {
		databaseError(c, "Failed to update property")
		return
	}

	if !uploadPropertyImages(c, &property) {
		return
	}

	if err := db.Preload("Images").Preload("Owner").First(&property, property.ID).Error; err != nil {
		databaseError(c, "Failed to load property details")
		return
	}
	for i := range property.Images {
		property.Images[i].URL = imageURLFor(property.Images[i].StorageKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    property,
	})
}

// DeleteProperty handles DELETE /api/v1/properties/:id - removes the listing,
// its photos (blobs and rows) and any requests filed against it. Same open
// rule as editing: any signed-in user may delete any listing.
func DeleteProperty(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, c.Param("id")).Error; err != nil {
		notFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanDeleteProperty(actor, &property) {
		forbidden(c, "You do not have permission to delete this property")
		return
	}

	if err := services.GetCascadeService().DeleteProperty(property.ID); err != nil {
		databaseError(c, "Failed to delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property deleted",
	})
}

// DeletePropertyImage handles DELETE /api/v1/properties/:id/images/:imageId -
// removes a single photo. Restricted to the listing owner or an admin.
func DeletePropertyImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var image models.PropertyImage
	if err := db.First(&image, c.Param("imageId")).Error; err != nil {
		notFound(c, "IMAGE_NOT_FOUND", "Image not found")
		return
	}

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || image.PropertyID != uint(propertyID) {
		notFound(c, "IMAGE_NOT_FOUND", "Image not found")
		return
	}

	var property models.Property
	if err := db.First(&property, image.PropertyID).Error; err != nil {
		notFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanDeletePropertyImage(actor, &property) {
		forbidden(c, "You do not have permission to delete this image")
		return
	}

	if err := services.GetCascadeService().DeleteImage(&image); err != nil {
		databaseError(c, "Failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted",
	})
}

// uploadPropertyImages stores every file in the form's "images" field and
// records a row per stored blob. Writes the error response and returns false
// on failure.
func uploadPropertyImages(c *gin.Context, property *models.Property) bool {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; a listing without photos is valid
		return true
	}

	files := form.File["images"]
	if len(files) == 0 {
		return true
	}

	imageService := services.GetImageService()
	db := config.GetDB()

	for _, fileHeader := range files {
		key, err := imageService.UploadImage(fileHeader)
		if err != nil {
			validationError(c, err.Error())
			return false
		}

		image := models.PropertyImage{
			PropertyID: property.ID,
			StorageKey: key,
		}
		if err := db.Create(&image).Error; err != nil {
			databaseError(c, "Failed to record uploaded image")
			return false
		}
	}

	return true
}

// attachImageURLs fills the computed URL field on every image of every
// property in the slice
func attachImageURLs(properties []models.Property) {
	for i := range properties {
		for j := range properties[i].Images {
			properties[i].Images[j].URL = imageURLFor(properties[i].Images[j].StorageKey)
		}
	}
}

// imageURLFor resolves a storage key to a presigned URL, best-effort
func imageURLFor(key string) string {
	imageService := services.GetImageService()
	if imageService == nil {
		return ""
	}
	url, err := imageService.GetImageURL(key)
	if err != nil {
		log.Printf("warning: failed to presign image %s: %v", key, err)
		return ""
	}
	return url
}
