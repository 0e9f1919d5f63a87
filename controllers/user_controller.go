package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/middleware"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
	"gorm.io/datatypes"
)

// CreateUserRequest represents the request body for creating a user profile
type CreateUserRequest struct {
	Role string `json:"role" binding:"omitempty,oneof=Client Agent"`
}

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"omitempty"`
	LastName  string `json:"last_name" binding:"omitempty"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// CreateUser handles POST /api/v1/users - creates a profile from Auth0 userinfo.
// The caller picks their marketplace role (Client or Agent); Admin can only be
// granted later through the admin area.
func CreateUser(c *gin.Context) {
	// Get the Auth0 user ID from the validated JWT
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	// Get the access token to call Auth0's /userinfo endpoint
	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleClient
	}

	// Fetch user info from Auth0
	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch user information from Auth0",
			},
		})
		return
	}

	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_EMAIL",
				"message": "Email not provided by Auth0",
			},
		})
		return
	}

	firstName, lastName := userInfo.GivenName, userInfo.FamilyName
	if firstName == "" && lastName == "" && userInfo.Name != "" {
		firstName, lastName = splitDisplayName(userInfo.Name)
	}

	user := models.User{
		Auth0ID:   auth0ID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(userInfo.Email),
		Roles:     datatypes.NewJSONSlice([]string{role}),
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A user with this Auth0 ID or email already exists",
				},
			})
			return
		}

		databaseError(c, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyProfile handles GET /api/v1/users/me - the caller's account overview:
// profile, owned listings, filed requests, requests on owned listings, and
// recent messages in both directions.
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var ownedProperties []models.Property
	if err := db.Preload("Images").
		Where("owner_id = ?", user.ID).
		Order("id DESC").
		Find(&ownedProperties).Error; err != nil {
		databaseError(c, "Failed to fetch owned properties")
		return
	}
	attachImageURLs(ownedProperties)

	var myRequests []models.Request
	if err := db.Preload("Property").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&myRequests).Error; err != nil {
		databaseError(c, "Failed to fetch requests")
		return
	}

	var propertyRequests []models.Request
	if err := db.Preload("Property").Preload("User").
		Joins("JOIN properties ON properties.id = requests.property_id").
		Where("properties.owner_id = ?", user.ID).
		Order("requests.created_at DESC").
		Find(&propertyRequests).Error; err != nil {
		databaseError(c, "Failed to fetch property requests")
		return
	}

	var receivedMessages []models.Message
	if err := db.Preload("FromUser").
		Where("to_user_id = ?", user.ID).
		Order("sent_at DESC").
		Limit(10).
		Find(&receivedMessages).Error; err != nil {
		databaseError(c, "Failed to fetch received messages")
		return
	}

	var sentMessages []models.Message
	if err := db.Preload("ToUser").
		Where("from_user_id = ?", user.ID).
		Order("sent_at DESC").
		Limit(10).
		Find(&sentMessages).Error; err != nil {
		databaseError(c, "Failed to fetch sent messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":              user,
			"owned_properties":  ownedProperties,
			"my_requests":       myRequests,
			"property_requests": propertyRequests,
			"received_messages": receivedMessages,
			"sent_messages":     sentMessages,
		},
	})
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates name and email
func UpdateMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Email != "" {
		updates["email"] = strings.ToLower(req.Email)
	}

	// If no fields to update, return current user
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    user,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_EXISTS",
					"message": "A user with this email already exists",
				},
			})
			return
		}

		databaseError(c, "Failed to update user profile")
		return
	}

	// Fetch updated user to return
	if err := db.First(user, user.ID).Error; err != nil {
		databaseError(c, "Failed to fetch updated profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteMyAccount handles DELETE /api/v1/users/me - removes the caller's
// account and everything owned by it: listings (images included), requests
// filed or received, and all messages. The token stops resolving to a profile
// once the row is gone.
func DeleteMyAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := services.GetCascadeService().DeleteUser(user.ID); err != nil {
		databaseError(c, "Failed to delete account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted",
	})
}

// isUniqueViolation reports whether a store error is a unique-key conflict
// (works with both PostgreSQL and SQLite wording)
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// splitDisplayName splits an Auth0 display name into first/last parts
func splitDisplayName(name string) (string, string) {
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
