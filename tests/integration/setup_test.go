package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"daylog/internal/handlers"
	"daylog/internal/logger"
	"daylog/internal/middleware"
	"daylog/internal/models"
	"daylog/internal/services"
	"daylog/internal/session"
	"daylog/internal/validator"
)

const testPassword = "test-password"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Category{},
		&models.Subcategory{},
		&models.Activity{},
		&models.CacheEntry{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	sessions := session.NewMemoryStore("integration-test-secret", time.Hour)

	// Services
	authService := services.NewAuthService(testPassword, "")
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	activityService := services.NewActivityService(db, categoryService, time.UTC)
	cacheService := services.NewCacheService(db)
	statsService := services.NewStatsService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, sessions)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	cacheHandler := handlers.NewCacheHandler(cacheService, auditService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("/")
	protected.Use(middleware.RequireSession(sessions))

	activities := protected.Group("/activities")
	activities.GET("/:date", activityHandler.GetByDate)
	activities.POST("", activityHandler.Create)
	activities.PUT("/:id", activityHandler.Update)
	activities.DELETE("/:id", activityHandler.Delete)

	protected.GET("/meta/categories", categoryHandler.GetBuiltinCategories)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.POST("/:categoryName/subcategories", categoryHandler.CreateSubcategory)

	suggestions := protected.Group("/suggestions")
	suggestions.GET("/categories", categoryHandler.SuggestCategories)
	suggestions.GET("/subcategories", categoryHandler.SuggestSubcategories)

	cache := protected.Group("/cache")
	cache.GET("/cache-entries", cacheHandler.List)
	cache.POST("/cache-entries", cacheHandler.Create)
	cache.PUT("/cache-entries/:id", cacheHandler.Update)
	cache.DELETE("/cache-entries/:id", cacheHandler.Delete)

	stats := protected.Group("/stats")
	stats.GET("/:date", statsHandler.Daily)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// login authenticates with the admin password and returns the session token.
func (app *testApp) login(t *testing.T) string {
	t.Helper()
	body := fmt.Sprintf(`{"password":%q}`, testPassword)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createCategory creates a category through the API and returns its record.
func (app *testApp) createCategory(t *testing.T, token, name string) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q}`, name)
	rec := app.request("POST", "/api/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})
}

// createSubcategory appends a subcategory through the API and returns its record.
func (app *testApp) createSubcategory(t *testing.T, token, categoryName, name string) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q}`, name)
	rec := app.request("POST", "/api/categories/"+url.PathEscape(categoryName)+"/subcategories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subcategory failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["subcategory"].(map[string]interface{})
}

// today returns the current UTC date, matching the app's test timezone.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
