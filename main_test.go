package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth0Domain:   "test.auth0.com",
		Auth0Audience: "https://test-api",
		AdminRoles:    []string{models.RoleAdmin},
	}
}

func setupMainTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Property{}, &models.PropertyImage{}, &models.Request{}, &models.Message{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(testConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestPublicListingRoutesNeedNoToken(t *testing.T) {
	db := setupMainTestDB(t)
	config.SetDB(db)

	router := setupRouter(testConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	db := setupMainTestDB(t)
	config.SetDB(db)

	router := setupRouter(testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/requests"},
		{http.MethodGet, "/api/v1/messages"},
		{http.MethodGet, "/api/v1/admin/dashboard"},
		{http.MethodDelete, "/api/v1/properties/1"},
	}

	for _, tt := range paths {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	}
}
