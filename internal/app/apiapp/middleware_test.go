package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	redrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/redis"
	adminauth "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/adminauth"
)

func newAuthFixture(t *testing.T) (*adminauth.Service, string) {
	t.Helper()

	mr := miniredis.RunT(t)
	sessions := redrepo.NewSessionRepo(redrepo.NewClient(mr.Addr(), "", 0))
	svc := adminauth.NewService(adminauth.NewJWTManager("test-secret", time.Minute), sessions, time.Hour)

	res, err := svc.CreateSession(context.Background(), "admin-1", adminauth.RoleModerator)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return svc, res.AccessToken
}

func TestAdminAuthMiddleware(t *testing.T) {
	svc, token := newAuthFixture(t)

	var captured adminauth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = adminauth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AdminAuthMiddleware(svc, zap.NewNop())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if captured.AdminID != "admin-1" || captured.Role != adminauth.RoleModerator {
		t.Errorf("identity = %+v", captured)
	}
}

func TestAdminAuthMiddlewareRejections(t *testing.T) {
	svc, _ := newAuthFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AdminAuthMiddleware(svc, zap.NewNop())(next)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(adminauth.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(adminauth.WithIdentity(req.Context(), adminauth.Identity{
		AdminID: "admin-1",
		Role:    adminauth.RoleModerator,
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("moderator on admin-only route: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(adminauth.WithIdentity(req.Context(), adminauth.Identity{
		AdminID: "admin-1",
		Role:    adminauth.RoleAdmin,
	}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
}
