package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marisolvega/skinroutine-backend/internal/auth"
	"github.com/marisolvega/skinroutine-backend/internal/users"
	pkgAuth "github.com/marisolvega/skinroutine-backend/pkg/auth"
	"github.com/marisolvega/skinroutine-backend/pkg/config"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
)

type stubAuthService struct {
	loginResp    *auth.LoginResponse
	loginErr     error
	refreshResp  *auth.RefreshResponse
	refreshErr   error
	logoutErr    error
	lastLogin    auth.LoginRequest
	lastRefresh  auth.RefreshRequest
	lastAccessID string
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	s.lastRefresh = req
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.lastAccessID = accessID
	return s.logoutErr
}

type stubRegisterService struct {
	err  error
	last auth.RegisterRequest
}

func (s *stubRegisterService) Register(_ context.Context, req auth.RegisterRequest) error {
	s.last = req
	return s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "issuer",
		ExpirationMinutes:      10,
		RefreshTokenTTLMinutes: 60,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, username, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		Username: username,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func jsonRequest(method, target string, payload any) *http.Request {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthLogin(t *testing.T) {
	svc := &stubAuthService{
		loginResp: &auth.LoginResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         &users.UserDTO{Username: "mia"},
		},
	}
	handler := AuthLogin(svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "mia",
		"password": "hunter2secret",
	})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastLogin.Username != "mia" {
		t.Fatalf("expected login for mia got %q", svc.lastLogin.Username)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" || envelope.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected token pair %+v", envelope.Data)
	}
	if envelope.Data.User == nil || envelope.Data.User.Username != "mia" {
		t.Fatalf("unexpected user payload %+v", envelope.Data.User)
	}
}

func TestAuthLoginMissingFields(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogin(svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "mia"})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastLogin.Username != "" {
		t.Fatalf("service should not be called on invalid body")
	}
}

func TestAuthLoginBadCredentialsStatus(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "mia",
		"password": "wrong-password",
	})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRegisterLogsInNewAccount(t *testing.T) {
	reg := &stubRegisterService{}
	svc := &stubAuthService{
		loginResp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"},
	}
	handler := AuthRegister(reg, svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":   "mia",
		"first_name": "Mia",
		"last_name":  "Vega",
		"email":      "mia@example.com",
		"password":   "hunter2secret",
	})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if reg.last.Username != "mia" || reg.last.Email != "mia@example.com" {
		t.Fatalf("unexpected register payload %+v", reg.last)
	}
	if svc.lastLogin.Username != "mia" || svc.lastLogin.Password != "hunter2secret" {
		t.Fatalf("register should log the account in, got %+v", svc.lastLogin)
	}
}

func TestAuthRegisterConflictSkipsLogin(t *testing.T) {
	reg := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	svc := &stubAuthService{}
	handler := AuthRegister(reg, svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":   "mia",
		"first_name": "Mia",
		"last_name":  "Vega",
		"email":      "mia@example.com",
		"password":   "hunter2secret",
	})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.lastLogin.Username != "" {
		t.Fatalf("login should not run after a failed registration")
	}
}

func TestAuthRefresh(t *testing.T) {
	svc := &stubAuthService{
		refreshResp: &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	handler := AuthRefresh(svc, nil)

	token := mintTestToken(t, testJWTConfig(), "mia", "session-1")
	req := jsonRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "old-refresh",
	})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRefresh.AccessToken != token || svc.lastRefresh.RefreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh request %+v", svc.lastRefresh)
	}

	var envelope struct {
		Data auth.RefreshResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "new-access" {
		t.Fatalf("unexpected refresh response %+v", envelope.Data)
	}
}

func TestAuthRefreshMissingBearer(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthRefresh(svc, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": "old-refresh",
	})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	cfg := testJWTConfig()
	handler := AuthLogout(svc, cfg, nil)

	token := mintTestToken(t, cfg, "mia", "session-9")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastAccessID != "session-9" {
		t.Fatalf("expected revocation of session-9 got %q", svc.lastAccessID)
	}
}

func TestAuthLogoutGarbageToken(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, testJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if svc.lastAccessID != "" {
		t.Fatalf("logout should not reach the service with a bad token")
	}
}
