package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/controllers"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
	"github.com/YassineBen-Yahia/realestate-api/tests/testutil"
)

// MarketplaceFlowTestSuite drives the full inquiry lifecycle through the HTTP
// surface: listing, inquiring, moderating, messaging, and cascading deletes.
type MarketplaceFlowTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	images *services.MockImageService

	admin models.User
	agent models.User
	buyer models.User
}

func (suite *MarketplaceFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.NoError(db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Request{},
		&models.Message{},
	))

	suite.db = db
	config.SetDB(db)
	config.SetConfig(&config.Config{AdminRoles: []string{models.RoleAdmin}})

	suite.images = services.NewMockImageService()
	suite.images.SetAsMockForTesting()
	services.InitCascadeService(db, suite.images)

	suite.admin = suite.createUser("auth0|admin", "admin@example.com", models.RoleAdmin)
	suite.agent = suite.createUser("auth0|agent", "agent@example.com", models.RoleAgent)
	suite.buyer = suite.createUser("auth0|buyer", "buyer@example.com", models.RoleClient)

	suite.router = suite.buildRouter()
}

func (suite *MarketplaceFlowTestSuite) createUser(auth0ID, email string, roles ...string) models.User {
	user := models.User{
		Auth0ID: auth0ID,
		Email:   email,
		Roles:   datatypes.NewJSONSlice(roles),
	}
	suite.NoError(suite.db.Create(&user).Error)
	return user
}

// buildRouter wires every route behind a header-driven stand-in for the JWT
// middleware: X-Acting-User carries the Auth0 ID of the caller.
func (suite *MarketplaceFlowTestSuite) buildRouter() *gin.Engine {
	router := gin.New()

	actingUser := func(c *gin.Context) {
		auth0ID := c.GetHeader("X-Acting-User")
		if auth0ID != "" {
			testutil.MockAuthMiddleware(auth0ID, "mock-token")(c)
			return
		}
		c.Next()
	}

	v1 := router.Group("/api/v1")
	v1.Use(actingUser)
	{
		v1.GET("/properties", controllers.ListProperties)
		v1.GET("/properties/:id", controllers.GetProperty)
		v1.POST("/properties", controllers.CreateProperty)
		v1.PUT("/properties/:id", controllers.UpdateProperty)
		v1.DELETE("/properties/:id", controllers.DeleteProperty)
		v1.DELETE("/properties/:id/images/:imageId", controllers.DeletePropertyImage)

		v1.GET("/users/me", controllers.GetMyProfile)
		v1.DELETE("/users/me", controllers.DeleteMyAccount)

		v1.POST("/requests", controllers.CreateRequest)
		v1.GET("/requests", controllers.ListMyRequests)
		v1.GET("/requests/incoming", controllers.ListIncomingRequests)
		v1.GET("/requests/:id", controllers.GetRequest)
		v1.PUT("/requests/:id/status", controllers.UpdateRequestStatus)
		v1.DELETE("/requests/:id", controllers.DeleteRequest)

		v1.POST("/messages", controllers.SendMessage)
		v1.GET("/messages", controllers.ListMessages)
		v1.GET("/messages/:id", controllers.GetMessage)
		v1.POST("/messages/:id/reply", controllers.ReplyToMessage)
		v1.DELETE("/messages/:id", controllers.DeleteMessage)

		v1.DELETE("/admin/users/:id", controllers.AdminDeleteUser)
		v1.GET("/admin/statistics", controllers.GetStatistics)
	}

	return router
}

// do executes a JSON request as the given user and returns the decoded body
func (suite *MarketplaceFlowTestSuite) do(user *models.User, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("X-Acting-User", user.Auth0ID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (suite *MarketplaceFlowTestSuite) createListing(owner models.User, title string) models.Property {
	property := models.Property{Title: title, Price: 250000, Status: models.PropertyStatusAvailable, OwnerID: &owner.ID}
	suite.NoError(suite.db.Create(&property).Error)
	return property
}

func (suite *MarketplaceFlowTestSuite) TestInquiryLifecycle() {
	property := suite.createListing(suite.agent, "Lakeside cabin")

	// Buyer browses publicly, then files an inquiry
	w, response := suite.do(nil, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", property.ID), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	w, response = suite.do(&suite.buyer, http.MethodPost, "/api/v1/requests", map[string]interface{}{
		"property_id": property.ID,
		"notes":       "Can I visit next week?",
	})
	suite.Equal(http.StatusCreated, w.Code)
	request := response["data"].(map[string]interface{})
	suite.Equal(models.RequestStatusPending, request["status"])
	requestID := uint(request["id"].(float64))

	statusPath := fmt.Sprintf("/api/v1/requests/%d/status", requestID)

	// The buyer cannot approve their own inquiry
	w, _ = suite.do(&suite.buyer, http.MethodPut, statusPath, map[string]interface{}{
		"status": models.RequestStatusApproved,
	})
	suite.Equal(http.StatusForbidden, w.Code)

	var stored models.Request
	suite.NoError(suite.db.First(&stored, requestID).Error)
	suite.Equal(models.RequestStatusPending, stored.Status, "rejected attempt leaves the status untouched")

	// The owner sees it in the incoming box and approves it
	w, response = suite.do(&suite.agent, http.MethodGet, "/api/v1/requests/incoming", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 1)

	w, response = suite.do(&suite.agent, http.MethodPut, statusPath, map[string]interface{}{
		"status": models.RequestStatusApproved,
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(models.RequestStatusApproved, response["data"].(map[string]interface{})["status"])

	// The buyer sees the approval and closes the loop by withdrawing
	w, response = suite.do(&suite.buyer, http.MethodGet, fmt.Sprintf("/api/v1/requests/%d", requestID), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(models.RequestStatusApproved, response["data"].(map[string]interface{})["status"])

	w, _ = suite.do(&suite.buyer, http.MethodDelete, fmt.Sprintf("/api/v1/requests/%d", requestID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Request{}).Count(&count)
	suite.EqualValues(0, count)
}

func (suite *MarketplaceFlowTestSuite) TestMessagingAroundAListing() {
	suite.createListing(suite.agent, "Garden house")

	// Buyer opens a conversation with the agent
	w, response := suite.do(&suite.buyer, http.MethodPost, "/api/v1/messages", map[string]interface{}{
		"to_email": "agent@example.com",
		"subject":  "Garden house",
		"body":     "Is the garden fenced?",
	})
	suite.Equal(http.StatusCreated, w.Code)
	messageID := uint(response["data"].(map[string]interface{})["id"].(float64))

	// Only the recipient can reply
	w, _ = suite.do(&suite.buyer, http.MethodPost, fmt.Sprintf("/api/v1/messages/%d/reply", messageID), map[string]interface{}{
		"body": "bump",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w, response = suite.do(&suite.agent, http.MethodPost, fmt.Sprintf("/api/v1/messages/%d/reply", messageID), map[string]interface{}{
		"body": "Yes, fully fenced.",
	})
	suite.Equal(http.StatusCreated, w.Code)
	reply := response["data"].(map[string]interface{})
	suite.Equal("Re: Garden house", reply["subject"])

	// An unrelated admin can read the thread, the lurking agent's peer cannot
	w, _ = suite.do(&suite.admin, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", messageID), nil)
	suite.Equal(http.StatusOK, w.Code)

	other := suite.createUser("auth0|other", "other@example.com", models.RoleClient)
	w, _ = suite.do(&other, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", messageID), nil)
	suite.Equal(http.StatusForbidden, w.Code)

	// Both directions show up in the buyer's boxes
	w, response = suite.do(&suite.buyer, http.MethodGet, "/api/v1/messages?box=received", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 1)

	w, response = suite.do(&suite.buyer, http.MethodGet, "/api/v1/messages?box=sent", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 1)
}

func (suite *MarketplaceFlowTestSuite) TestAdminDeleteCascades() {
	property := suite.createListing(suite.agent, "Doomed villa")
	suite.images.Put("properties/villa.png", []byte("img"))
	suite.NoError(suite.db.Create(&models.PropertyImage{PropertyID: property.ID, StorageKey: "properties/villa.png"}).Error)
	suite.NoError(suite.db.Create(&models.Request{PropertyID: property.ID, UserID: suite.buyer.ID, Status: models.RequestStatusPending}).Error)
	suite.NoError(suite.db.Create(&models.Message{FromUserID: suite.buyer.ID, ToUserID: suite.agent.ID, Body: "hello"}).Error)

	w, _ := suite.do(&suite.admin, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", suite.agent.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.User{}).Where("id = ?", suite.agent.ID).Count(&count)
	suite.EqualValues(0, count)
	suite.db.Model(&models.Property{}).Count(&count)
	suite.EqualValues(0, count)
	suite.db.Model(&models.PropertyImage{}).Count(&count)
	suite.EqualValues(0, count)
	suite.db.Model(&models.Request{}).Count(&count)
	suite.EqualValues(0, count)
	suite.db.Model(&models.Message{}).Count(&count)
	suite.EqualValues(0, count)
	suite.False(suite.images.ImageExists("properties/villa.png"))

	// The buyer's account survives and their token still works
	w, response := suite.do(&suite.buyer, http.MethodGet, "/api/v1/users/me", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	// The agent's token no longer resolves to a profile
	w, _ = suite.do(&suite.agent, http.MethodGet, "/api/v1/users/me", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *MarketplaceFlowTestSuite) TestMissingResourcesReportNotFoundBeforeForbidden() {
	// Even a caller who would be forbidden gets a 404 for resources that do
	// not exist
	w, response := suite.do(&suite.buyer, http.MethodGet, "/api/v1/requests/9999", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("REQUEST_NOT_FOUND", response["error"].(map[string]interface{})["code"])

	w, response = suite.do(&suite.buyer, http.MethodGet, "/api/v1/messages/9999", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("MESSAGE_NOT_FOUND", response["error"].(map[string]interface{})["code"])

	w, response = suite.do(nil, http.MethodGet, "/api/v1/properties/9999", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("PROPERTY_NOT_FOUND", response["error"].(map[string]interface{})["code"])
}

func TestMarketplaceFlowTestSuite(t *testing.T) {
	suite.Run(t, new(MarketplaceFlowTestSuite))
}
