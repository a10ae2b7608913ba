package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"daylog/internal/session"
	"daylog/internal/validator"
)

// --- mock auth service ---

type mockAuthService struct {
	verifyPasswordFn func(candidate string) bool
}

func (m *mockAuthService) VerifyPassword(candidate string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(candidate)
	}
	return true
}

// --- mock session store ---

type mockSessionStore struct {
	issueFn    func() (string, error)
	validateFn func(token string) bool
	revoked    []string
}

func (m *mockSessionStore) Issue() (string, error) {
	if m.issueFn != nil {
		return m.issueFn()
	}
	return "test-token", nil
}

func (m *mockSessionStore) Validate(token string) bool {
	if m.validateFn != nil {
		return m.validateFn(token)
	}
	return true
}

func (m *mockSessionStore) Revoke(token string) {
	m.revoked = append(m.revoked, token)
}

func (m *mockSessionStore) Sweep() int { return 0 }

var _ session.Store = (*mockSessionStore)(nil)

// --- mock audit service ---

type mockAuditService struct{}

func (m *mockAuditService) Log(_, _, _ string, _ map[string]any) {}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/verify", handler.Verify)
	r.POST("/auth/logout", handler.Logout)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doAuthedRequest(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token on success", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"password":"hunter2"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["success"] != true {
			t.Error("expected success=true")
		}
		if result["token"] != "test-token" {
			t.Errorf("expected issued token, got %v", result["token"])
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		authSvc := &mockAuthService{verifyPasswordFn: func(string) bool { return false }}
		handler := NewAuthHandler(authSvc, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 500 when issuing fails", func(t *testing.T) {
		sessions := &mockSessionStore{issueFn: func() (string, error) {
			return "", fmt.Errorf("entropy exhausted")
		}}
		handler := NewAuthHandler(&mockAuthService{}, sessions)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"password":"hunter2"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Verify(t *testing.T) {
	t.Run("returns valid=true for a live session", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doAuthedRequest(r, "GET", "/auth/verify", "", "some-token")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["valid"] != true {
			t.Error("expected valid=true")
		}
	})

	t.Run("returns valid=false for a revoked token", func(t *testing.T) {
		sessions := &mockSessionStore{validateFn: func(string) bool { return false }}
		handler := NewAuthHandler(&mockAuthService{}, sessions)
		r := setupAuthRouter(handler)

		rec := doAuthedRequest(r, "GET", "/auth/verify", "", "stale-token")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["valid"] != false {
			t.Error("expected valid=false")
		}
	})

	t.Run("returns valid=false without a bearer token", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/auth/verify", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["valid"] != false {
			t.Error("expected valid=false without a token")
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		sessions := &mockSessionStore{}
		handler := NewAuthHandler(&mockAuthService{}, sessions)
		r := setupAuthRouter(handler)

		rec := doAuthedRequest(r, "POST", "/auth/logout", "", "the-token")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(sessions.revoked) != 1 || sessions.revoked[0] != "the-token" {
			t.Errorf("expected the presented token revoked, got %v", sessions.revoked)
		}
	})

	t.Run("returns 401 without a bearer token", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{}, &mockSessionStore{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}
