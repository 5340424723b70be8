package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimbrus/accounts-api/config"
	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/handler"
	"github.com/nimbrus/accounts-api/internal/middleware"
	"github.com/nimbrus/accounts-api/internal/model"
	"github.com/nimbrus/accounts-api/internal/router"
	"github.com/nimbrus/accounts-api/internal/service"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// memoryStore is an in-memory service.UserStore for endpoint tests.
type memoryStore struct {
	users []*model.User
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryStore) FindByIdentification(_ context.Context, identification string) (*model.User, error) {
	for _, u := range s.users {
		if u.EmailValue() == identification || u.UsernameValue() == identification || u.PhoneNumberValue() == identification {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryStore) FindByIdentityFields(_ context.Context, email, username, phoneNumber string) ([]model.User, error) {
	var matched []model.User
	for _, u := range s.users {
		if (email != "" && u.EmailValue() == email) ||
			(username != "" && u.UsernameValue() == username) ||
			(phoneNumber != "" && u.PhoneNumberValue() == phoneNumber) {
			matched = append(matched, *u)
		}
	}
	return matched, nil
}

func (s *memoryStore) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = "memory-id"
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.users = append(s.users, user)
	return nil
}

func newTestServer() *gin.Engine {
	cfg := &config.Config{
		App: config.AppConfig{Environment: "development", Port: "0"},
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret-for-tests",
			RefreshSecret: "refresh-secret-for-tests",
			AccessExpiry:  time.Hour,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{Request: 10000, Duration: 60},
	}

	store := &memoryStore{}
	tokenService := service.NewTokenService(cfg.JWT)
	authService := service.NewAuthService(store, tokenService, service.NewProfileCache(nil, 0))
	authGuard := middleware.NewAuthGuard(tokenService, authService)

	return router.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(),
		handler.NewHealthHandler(nil, nil),
		authGuard,
		cfg,
	).SetupRoutes()
}

func doJSON(t *testing.T, srv *gin.Engine, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(constants.HeaderContentType, "application/json")
	if mutate != nil {
		mutate(req)
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func signUpBody() map[string]any {
	return map[string]any{
		"email":     "alice@example.com",
		"username":  "alice",
		"password":  "Password@123",
		"firstName": "Alice",
		"lastName":  "Smith",
		"birthday":  "1990-05-20",
	}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
		User         map[string]any `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in the body")
	}
	if _, leaked := resp.User["password"]; leaked {
		t.Error("password leaked into the profile payload")
	}
	if resp.User["email"] != "alice@example.com" {
		t.Errorf("user.email = %v, want alice@example.com", resp.User["email"])
	}

	cookie := findCookie(t, w, constants.RefreshCookieName)
	if cookie == nil {
		t.Fatal("refresh cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("refresh cookie must be HTTP-only")
	}
	if cookie.Path != "/api/v1/auth" {
		t.Errorf("cookie path = %q, want /api/v1/auth", cookie.Path)
	}
	if cookie.Value != resp.RefreshToken {
		t.Error("cookie does not carry the refresh token from the body")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	srv := newTestServer()

	if w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil); w.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d, body: %s", w.Code, w.Body.String())
	}

	body := signUpBody()
	body["username"] = "different"
	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp struct {
		Message []string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Message) != 1 || resp.Message[0] != "email is already in use" {
		t.Errorf("message = %v, want [email is already in use]", resp.Message)
	}
}

func TestSignUpValidationFailure(t *testing.T) {
	srv := newTestServer()

	body := signUpBody()
	body["password"] = "short"
	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp struct {
		Message []string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Message) == 0 {
		t.Error("expected per-field validation messages")
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"identification": "alice",
		"password":       "Password@123",
	}, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusAccepted, w.Body.String())
	}

	if cookie := findCookie(t, w, constants.RefreshCookieName); cookie == nil {
		t.Error("login did not set the refresh cookie")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer()
	doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)

	for _, tc := range []struct {
		name           string
		identification string
	}{
		{"wrong password", "alice"},
		{"unknown user", "nobody"},
	} {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", map[string]any{
			"identification": tc.identification,
			"password":       "wrong-password",
		}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestLogoutFlow(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}

	// Without a token the route is unauthorized
	if w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("logout without token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", nil, func(req *http.Request) {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+resp.AccessToken)
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("logout status = %d, want %d, body: %s", w.Code, http.StatusAccepted, w.Body.String())
	}

	var logoutResp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &logoutResp); err != nil {
		t.Fatalf("unmarshal logout response: %v", err)
	}
	if logoutResp["message"] != constants.MsgLoggedOut {
		t.Errorf("message = %v, want %q", logoutResp["message"], constants.MsgLoggedOut)
	}

	cookie := findCookie(t, w, constants.RefreshCookieName)
	if cookie == nil {
		t.Fatal("logout did not rewrite the refresh cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("refresh cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestRefreshFlow(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)
	refreshCookie := findCookie(t, w, constants.RefreshCookieName)
	if refreshCookie == nil {
		t.Fatal("signup did not set the refresh cookie")
	}

	// No cookie, no refresh
	if w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/refresh", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("refresh without cookie: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = doJSON(t, srv, http.MethodPost, "/api/v1/auth/refresh", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: constants.RefreshCookieName, Value: refreshCookie.Value})
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal refresh response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("refresh did not return a full token pair")
	}
	if findCookie(t, w, constants.RefreshCookieName) == nil {
		t.Error("refresh did not rotate the cookie")
	}
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)
	var resp struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/users/me", nil, func(req *http.Request) {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+resp.RefreshToken)
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh token accepted on an access route: status = %d", w.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", signUpBody(), nil)
	var signup struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}

	if w := doJSON(t, srv, http.MethodGet, "/api/v1/users/me", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me without token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/v1/users/me", nil, func(req *http.Request) {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+signup.AccessToken)
	})
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var profile map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if profile["username"] != "alice" {
		t.Errorf("username = %v, want alice", profile["username"])
	}
	if _, leaked := profile["password"]; leaked {
		t.Error("password leaked into the profile payload")
	}
}
