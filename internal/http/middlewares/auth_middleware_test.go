package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbites/canteenhub/internal/auth"
	"github.com/campusbites/canteenhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(m *middlewares.AuthMiddleware) *gin.Engine {
	r := gin.New()

	r.GET("/profile", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		role, _ := middlewares.RoleFromContext(c)

		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)

	validToken, err := manager.Issue("u-1", "student")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	expiredManager := auth.NewManager("test-secret-key", -time.Minute)

	expiredToken, err := expiredManager.Issue("u-1", "student")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	r := protectedRouter(middlewares.NewAuthMiddleware(manager))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "bare bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer garbage", wantStatus: http.StatusForbidden},
		{name: "expired token", header: "Bearer " + expiredToken, wantStatus: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + validToken, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, tc.header)

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus != http.StatusOK {
				var resp struct {
					Error string `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
				}
				if resp.Error == "" {
					t.Fatal("rejection should carry an error message")
				}
				return
			}

			var resp struct {
				ID   string `json:"id"`
				Role string `json:"role"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
			}
			if resp.ID != "u-1" || resp.Role != "student" {
				t.Fatalf("identity not attached to context: %+v", resp)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)
	m := middlewares.NewAuthMiddleware(manager)

	r := gin.New()
	r.GET("/admin", m.RequireAuth(), m.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, err := manager.Issue("u-admin", "admin")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	studentToken, err := manager.Issue("u-student", "student")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("admin: got status %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("student: got status %d, want 403", w.Code)
	}
}
