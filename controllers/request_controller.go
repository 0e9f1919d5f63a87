package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
)

// CreateRequestRequest represents the request body for filing an inquiry
type CreateRequestRequest struct {
	PropertyID uint   `json:"property_id" binding:"required"`
	Notes      string `json:"notes"`
}

// UpdateRequestStatusRequest represents the request body for a status change.
// The status is free-form text; Pending, Approved and Rejected are the
// conventional values.
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateRequest handles POST /api/v1/requests - files an inquiry on a
// property. New inquiries always start out Pending.
func CreateRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	db := config.GetDB()
	var property models.Property
	if err := db.First(&property, req.PropertyID).Error; err != nil {
		notFound(c, "PROPERTY_NOT_FOUND", "Property not found")
		return
	}

	request := models.Request{
		PropertyID: property.ID,
		UserID:     user.ID,
		Notes:      req.Notes,
		Status:     models.RequestStatusPending,
	}

	if err := db.Create(&request).Error; err != nil {
		databaseError(c, "Failed to create request")
		return
	}

	if err := db.Preload("Property").Preload("User").First(&request, request.ID).Error; err != nil {
		databaseError(c, "Failed to load request details")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}

// ListMyRequests handles GET /api/v1/requests - the caller's own inquiries,
// newest first. Admins see every inquiry in the system.
func ListMyRequests(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Property").Preload("User")
	if !user.IsAdmin() {
		query = query.Where("user_id = ?", user.ID)
	}

	var requests []models.Request
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		databaseError(c, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// ListIncomingRequests handles GET /api/v1/requests/incoming - inquiries
// filed against properties the caller owns
func ListIncomingRequests(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var requests []models.Request
	if err := db.Preload("Property").Preload("User").
		Joins("JOIN properties ON properties.id = requests.property_id").
		Where("properties.owner_id = ?", user.ID).
		Order("requests.created_at DESC").
		Find(&requests).Error; err != nil {
		databaseError(c, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// GetRequest handles GET /api/v1/requests/:id - inquiry details, visible to
// the requester, the property owner, and admins
func GetRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.Preload("Property").Preload("User").
		First(&request, c.Param("id")).Error; err != nil {
		notFound(c, "REQUEST_NOT_FOUND", "Request not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanViewRequest(actor, &request) {
		forbidden(c, "You do not have permission to view this request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// UpdateRequestStatus handles PUT /api/v1/requests/:id/status - overwrites
// the inquiry's status. Only the property owner or an admin may drive the
// transition; the status value itself is not constrained. Last write wins.
func UpdateRequestStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.Preload("Property").
		First(&request, c.Param("id")).Error; err != nil {
		notFound(c, "REQUEST_NOT_FOUND", "Request not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanUpdateRequestStatus(actor, &request) {
		forbidden(c, "Only the property owner can update this request")
		return
	}

	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	if err := db.Model(&request).Update("status", req.Status).Error; err != nil {
		databaseError(c, "Failed to update request status")
		return
	}

	if err := db.Preload("Property").Preload("User").First(&request, request.ID).Error; err != nil {
		databaseError(c, "Failed to load request details")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// DeleteRequest handles DELETE /api/v1/requests/:id - withdraws an inquiry.
// Only the requester or an admin may delete it.
func DeleteRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.First(&request, c.Param("id")).Error; err != nil {
		notFound(c, "REQUEST_NOT_FOUND", "Request not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanDeleteRequest(actor, &request) {
		forbidden(c, "You do not have permission to delete this request")
		return
	}

	if err := db.Delete(&request).Error; err != nil {
		databaseError(c, "Failed to delete request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Request deleted",
	})
}
