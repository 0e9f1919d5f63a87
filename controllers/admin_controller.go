package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
)

// ToggleRoleRequest represents the request body for toggling a user's role
type ToggleRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin Agent Client"`
}

// adminActor resolves the caller and checks the admin-area gate. Which roles
// may enter is configurable (ADMIN_ROLES); Admin-only by default.
func adminActor(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	actor := services.ActorFor(user)
	if !services.CanAccessAdminArea(actor, config.GetConfig().AdminRoles) {
		forbidden(c, "You do not have permission to access the admin area")
		return nil, false
	}

	return user, true
}

// GetDashboard handles GET /api/v1/admin/dashboard - aggregate counts plus
// the most recent listings and inquiries
func GetDashboard(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()

	var totalUsers, totalProperties, totalRequests, totalMessages int64
	var pendingRequests, availableProperties, soldProperties int64

	queries := []func() error {
		func() error { return db.Model(&models.User{}).Count(&totalUsers).Error },
		func() error { return db.Model(&models.Property{}).Count(&totalProperties).Error },
		func() error { return db.Model(&models.Request{}).Count(&totalRequests).Error },
		func() error { return db.Model(&models.Message{}).Count(&totalMessages).Error },
		func() error {
			return db.Model(&models.Request{}).Where("status = ?", models.RequestStatusPending).Count(&pendingRequests).Error
		},
		func() error {
			return db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusAvailable).Count(&availableProperties).Error
		},
		func() error {
			return db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusSold).Count(&soldProperties).Error
		},
	}
	for _, query := range queries {
		if err := query(); err != nil {
			databaseError(c, "Failed to compute statistics")
			return
		}
	}

	var recentProperties []models.Property
	if err := db.Preload("Owner").Order("id DESC").Limit(5).Find(&recentProperties).Error; err != nil {
		databaseError(c, "Failed to fetch recent properties")
		return
	}

	var recentRequests []models.Request
	if err := db.Preload("Property").Preload("User").
		Order("created_at DESC").Limit(5).Find(&recentRequests).Error; err != nil {
		databaseError(c, "Failed to fetch recent requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats": gin.H{
				"total_users":          totalUsers,
				"total_properties":     totalProperties,
				"total_requests":       totalRequests,
				"total_messages":       totalMessages,
				"pending_requests":     pendingRequests,
				"available_properties": availableProperties,
				"sold_properties":      soldProperties,
			},
			"recent_properties": recentProperties,
			"recent_requests":   recentRequests,
		},
	})
}

// ListUsers handles GET /api/v1/admin/users - every registered user
func ListUsers(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		databaseError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// GetUserDetails handles GET /api/v1/admin/users/:id - one user with their
// listings and inquiries
func GetUserDetails(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		notFound(c, "USER_NOT_FOUND", "User not found")
		return
	}

	var properties []models.Property
	if err := db.Where("owner_id = ?", user.ID).Find(&properties).Error; err != nil {
		databaseError(c, "Failed to fetch user properties")
		return
	}

	var requests []models.Request
	if err := db.Preload("Property").Where("user_id = ?", user.ID).Find(&requests).Error; err != nil {
		databaseError(c, "Failed to fetch user requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":       user,
			"properties": properties,
			"requests":   requests,
		},
	})
}

// ToggleUserRole handles POST /api/v1/admin/users/:id/roles - adds the role
// if the user lacks it, removes it otherwise
func ToggleUserRole(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	var req ToggleRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		notFound(c, "USER_NOT_FOUND", "User not found")
		return
	}

	if user.HasRole(req.Role) {
		kept := user.Roles[:0]
		for _, r := range user.Roles {
			if r != req.Role {
				kept = append(kept, r)
			}
		}
		user.Roles = kept
	} else {
		user.Roles = append(user.Roles, req.Role)
	}

	if err := db.Model(&user).Update("roles", user.Roles).Error; err != nil {
		databaseError(c, "Failed to update user roles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// AdminDeleteUser handles DELETE /api/v1/admin/users/:id - removes a user
// and cascades to everything they own
func AdminDeleteUser(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		notFound(c, "USER_NOT_FOUND", "User not found")
		return
	}

	if err := services.GetCascadeService().DeleteUser(user.ID); err != nil {
		databaseError(c, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}

// AdminListProperties handles GET /api/v1/admin/properties
func AdminListProperties(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var properties []models.Property
	if err := db.Preload("Owner").Preload("Images").
		Order("id DESC").Find(&properties).Error; err != nil {
		databaseError(c, "Failed to fetch properties")
		return
	}
	attachImageURLs(properties)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    properties,
	})
}

// AdminListRequests handles GET /api/v1/admin/requests
func AdminListRequests(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var requests []models.Request
	if err := db.Preload("Property").Preload("User").
		Order("created_at DESC").Find(&requests).Error; err != nil {
		databaseError(c, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// AdminListMessages handles GET /api/v1/admin/messages
func AdminListMessages(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()
	var messages []models.Message
	if err := db.Preload("FromUser").Preload("ToUser").
		Order("sent_at DESC").Find(&messages).Error; err != nil {
		databaseError(c, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// statusCount is one row of a per-status aggregation
type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetStatistics handles GET /api/v1/admin/statistics - per-status property
// and request counts plus per-role user counts
func GetStatistics(c *gin.Context) {
	if _, ok := adminActor(c); !ok {
		return
	}

	db := config.GetDB()

	var propertyStats []statusCount
	if err := db.Model(&models.Property{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&propertyStats).Error; err != nil {
		databaseError(c, "Failed to compute property statistics")
		return
	}

	var requestStats []statusCount
	if err := db.Model(&models.Request{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&requestStats).Error; err != nil {
		databaseError(c, "Failed to compute request statistics")
		return
	}

	// Roles live in a JSON column, so the per-role tally is computed here
	// rather than in SQL
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		databaseError(c, "Failed to fetch users")
		return
	}
	roleCounts := map[string]int64{}
	for _, user := range users {
		for _, role := range user.Roles {
			roleCounts[role]++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"property_stats": propertyStats,
			"request_stats":  requestStats,
			"user_stats":     roleCounts,
		},
	})
}
