package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
)

// SendMessageRequest represents the request body for sending a message. The
// recipient is addressed by email.
type SendMessageRequest struct {
	ToEmail string `json:"to_email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// ReplyMessageRequest represents the request body for replying to a message
type ReplyMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// SendMessage handles POST /api/v1/messages - sends a message to another user
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	db := config.GetDB()
	var recipient models.User
	if err := db.Where("email = ?", strings.ToLower(req.ToEmail)).First(&recipient).Error; err != nil {
		notFound(c, "RECIPIENT_NOT_FOUND", "User with this email not found")
		return
	}

	// A message always has two distinct endpoints
	if recipient.ID == user.ID {
		validationError(c, "cannot send a message to yourself")
		return
	}

	message := models.Message{
		FromUserID: user.ID,
		ToUserID:   recipient.ID,
		Subject:    req.Subject,
		Body:       req.Body,
	}

	if err := db.Create(&message).Error; err != nil {
		databaseError(c, "Failed to create message")
		return
	}

	if err := db.Preload("FromUser").Preload("ToUser").First(&message, message.ID).Error; err != nil {
		databaseError(c, "Failed to load message details")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/messages - the caller's correspondence,
// newest first. ?box=sent or ?box=received narrows the direction. Admins see
// every message in the system.
func ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("FromUser").Preload("ToUser")

	switch c.Query("box") {
	case "sent":
		query = query.Where("from_user_id = ?", user.ID)
	case "received":
		query = query.Where("to_user_id = ?", user.ID)
	default:
		if !user.IsAdmin() {
			query = query.Where("from_user_id = ? OR to_user_id = ?", user.ID, user.ID)
		}
	}

	var messages []models.Message
	if err := query.Order("sent_at DESC").Find(&messages).Error; err != nil {
		databaseError(c, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// GetMessage handles GET /api/v1/messages/:id - message details, visible only
// to the sender, the recipient, and admins
func GetMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var message models.Message
	if err := db.Preload("FromUser").Preload("ToUser").
		First(&message, c.Param("id")).Error; err != nil {
		notFound(c, "MESSAGE_NOT_FOUND", "Message not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanViewMessage(actor, &message) {
		forbidden(c, "You do not have permission to view this message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    message,
	})
}

// ReplyToMessage handles POST /api/v1/messages/:id/reply - sends a reply to
// the original sender. Only the recipient may reply.
func ReplyToMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var original models.Message
	if err := db.First(&original, c.Param("id")).Error; err != nil {
		notFound(c, "MESSAGE_NOT_FOUND", "Message not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanReplyToMessage(actor, &original) {
		forbidden(c, "Only the recipient can reply to this message")
		return
	}

	var req ReplyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	subject := original.Subject
	if !strings.HasPrefix(subject, "Re: ") {
		subject = "Re: " + subject
	}

	reply := models.Message{
		FromUserID: user.ID,
		ToUserID:   original.FromUserID,
		Subject:    subject,
		Body:       req.Body,
	}

	if err := db.Create(&reply).Error; err != nil {
		databaseError(c, "Failed to create message")
		return
	}

	if err := db.Preload("FromUser").Preload("ToUser").First(&reply, reply.ID).Error; err != nil {
		databaseError(c, "Failed to load message details")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    reply,
	})
}

// DeleteMessage handles DELETE /api/v1/messages/:id - removes a message from
// the conversation. Either endpoint or an admin may delete it.
func DeleteMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var message models.Message
	if err := db.First(&message, c.Param("id")).Error; err != nil {
		notFound(c, "MESSAGE_NOT_FOUND", "Message not found")
		return
	}

	actor := services.ActorFor(user)
	if !services.CanDeleteMessage(actor, &message) {
		forbidden(c, "You do not have permission to delete this message")
		return
	}

	if err := db.Delete(&message).Error; err != nil {
		databaseError(c, "Failed to delete message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message deleted",
	})
}
