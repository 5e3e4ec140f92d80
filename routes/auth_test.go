package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"rental-office-server/models"
	"rental-office-server/storage"
	"rental-office-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires a minimal app with the notification and auth routes
// behind the real admin middleware, backed by an in-memory database.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Unit{}, &models.Owner{},
		&models.City{}, &models.District{}, &models.Inventory{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	storage.DB = db

	hash, _ := bcrypt.GenerateFromPassword([]byte("office-password"), bcrypt.DefaultCost)
	if err := db.Create(&models.User{Email: "admin@office.test", Password: string(hash), Role: "admin"}).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	app.Post("/api/auth/login", Login)
	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		notifications.Get("/", GetNotifications)
	}
	if err := app.Build(); err != nil {
		t.Fatalf("build test app: %v", err)
	}
	return app
}

func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestNotificationsRBAC(t *testing.T) {
	app := buildTestApp(t)

	// No token
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Non-admin role
	req2 := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("viewer"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer role, got %d", resp2.Code)
	}

	// Admin role lists the (empty) feed
	req3 := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp3.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := buildTestApp(t)

	body := `{"email":"admin@office.test","password":"not-the-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", resp.Code)
	}

	// Unknown account is indistinguishable from a bad password.
	body2 := `{"email":"nobody@office.test","password":"whatever"}`
	req2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body2))
	req2.Header.Set("Content-Type", "application/json")
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown account, got %d", resp2.Code)
	}
}
