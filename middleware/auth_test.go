package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
	gin.SetMode(gin.TestMode)
}

func authTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func doAuthRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := authTestRouter()

	token, err := services.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	w := doAuthRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := authTestRouter()

	if w := doAuthRequest(router, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if w := doAuthRequest(router, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for non-bearer scheme, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	router := authTestRouter()

	if w := doAuthRequest(router, "Bearer not.a.token"); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	router := authTestRouter()

	refresh, err := services.GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if w := doAuthRequest(router, "Bearer "+refresh); w.Code != http.StatusUnauthorized {
		t.Errorf("Refresh tokens must not pass the auth middleware, got %d", w.Code)
	}
}
