package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/services"
)

// stubAuth resolves tokens from a fixed table; everything else fails closed.
type stubAuth struct {
	tokens map[string]*services.Claims
}

func (s *stubAuth) Login(context.Context, *services.LoginRequest) (*services.LoginResult, error) {
	return nil, services.ErrInvalidCredentials
}

func (s *stubAuth) VerifyToken(token string) (*services.Claims, error) {
	if claims, ok := s.tokens[token]; ok {
		return claims, nil
	}
	return nil, services.ErrInvalidCredentials
}

func newGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := &stubAuth{tokens: map[string]*services.Claims{
		"admin-token":   {UserID: 1, Email: "admin@school.kz", Role: models.RoleAdmin},
		"manager-token": {UserID: 2, Email: "manager@school.kz", Role: models.RoleManager},
		"teacher-token": {UserID: 3, Email: "teacher@school.kz", Role: models.RoleTeacher},
	}}

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, models.OK("reached")) }

	router := gin.New()
	router.Use(AccessGate(auth))
	router.GET("/health", ok)
	router.POST("/lead", ok)
	router.GET("/login", ok)
	router.GET("/admin", ok)
	router.GET("/teacher", ok)
	router.GET("/teacher/api/groups", ok)
	router.GET("/api/v1/students", ok)

	users := router.Group("/api/v1/users")
	users.Use(RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	users.GET("", ok)

	return router
}

func gateRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAccessGate(t *testing.T) {
	router := newGateRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantTarget string
	}{
		{"health is open", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"lead form is open", http.MethodPost, "/lead", "", http.StatusOK, ""},
		{"login page is open", http.MethodGet, "/login", "", http.StatusOK, ""},

		{"api without token", http.MethodGet, "/api/v1/students", "", http.StatusUnauthorized, ""},
		{"api with garbage token", http.MethodGet, "/api/v1/students", "expired-or-forged", http.StatusUnauthorized, ""},
		{"api with admin token", http.MethodGet, "/api/v1/students", "admin-token", http.StatusOK, ""},
		{"api with manager token", http.MethodGet, "/api/v1/students", "manager-token", http.StatusOK, ""},

		{"admin page without token", http.MethodGet, "/admin", "", http.StatusFound, "/login"},
		{"admin page as teacher", http.MethodGet, "/admin", "teacher-token", http.StatusFound, "/teacher"},
		{"admin page as manager", http.MethodGet, "/admin", "manager-token", http.StatusOK, ""},

		{"teacher page without token", http.MethodGet, "/teacher", "", http.StatusFound, "/login"},
		{"teacher page as manager", http.MethodGet, "/teacher", "manager-token", http.StatusFound, "/admin"},
		{"teacher page as teacher", http.MethodGet, "/teacher", "teacher-token", http.StatusOK, ""},
		{"teacher api as teacher", http.MethodGet, "/teacher/api/groups", "teacher-token", http.StatusOK, ""},
		{"teacher api without token", http.MethodGet, "/teacher/api/groups", "", http.StatusUnauthorized, ""},
		{"teacher api as manager", http.MethodGet, "/teacher/api/groups", "manager-token", http.StatusForbidden, ""},
		{"teacher api as admin", http.MethodGet, "/teacher/api/groups", "admin-token", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := gateRequest(router, tt.method, tt.path, tt.token)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantTarget != "" {
				if loc := w.Header().Get("Location"); loc != tt.wantTarget {
					t.Errorf("expected redirect to %s, got %s", tt.wantTarget, loc)
				}
			}
			// API rejections come back as the JSON envelope, never a redirect.
			if tt.wantStatus == http.StatusUnauthorized || tt.wantStatus == http.StatusForbidden {
				var resp models.Response
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("expected JSON envelope, got %s", w.Body.String())
				}
				if resp.Success {
					t.Error("expected success=false in failure envelope")
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	router := newGateRouter(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"admin allowed", "admin-token", http.StatusOK},
		{"manager forbidden", "manager-token", http.StatusForbidden},
		{"teacher forbidden", "teacher-token", http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := gateRequest(router, http.MethodGet, "/api/v1/users", tt.token)
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want pathClass
	}{
		{"/login", classLogin},
		{"/auth/login", classLogin},
		{"/auth/logout", classLogin},
		{"/lead", classPublic},
		{"/health", classPublic},
		{"/", classPublic},
		{"/teacher", classTeacherArea},
		{"/teacher/api/groups", classTeacherArea},
		{"/admin", classAdminArea},
		{"/admin/students", classAdminArea},
		{"/api/v1/students", classAPI},
	}

	for _, tt := range tests {
		if got := classifyPath(tt.path); got != tt.want {
			t.Errorf("classifyPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
