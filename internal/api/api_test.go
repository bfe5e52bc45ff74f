package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spicedrama/ordering-system/internal/api/handler"
	"github.com/spicedrama/ordering-system/internal/api/middleware"
	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
	"github.com/spicedrama/ordering-system/internal/core/service"
)

// These tests exercise the full request chain: routing, auth middleware,
// RBAC, handlers, services, and the central error handler, against an
// in-memory user store.

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == login || u.Email == login {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	if upd.Password != nil {
		u.PasswordHash = *upd.Password
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// newTestApp wires the API surface the same way NewRouter does, minus the
// Mongo, Redis, metrics, and swagger plumbing that the chain under test does
// not need.
func newTestApp(repo *memUserRepo) *echo.Echo {
	log := zerolog.Nop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	tokenService := service.NewTokenService("test-secret", time.Hour)
	authService := service.NewAuthService(repo, tokenService, nil, log)
	userService := service.NewUserService(repo, domain.NewRoleSet(), log)

	authHandler := handler.NewAuthHandler(authService, repo)
	userHandler := handler.NewUserHandler(userService)

	authed := middleware.Auth(tokenService, repo, middleware.PolicyStrong)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authed)
	auth.PUT("/change-password", authHandler.ChangePassword, authed)
	auth.GET("/users", userHandler.List, authed, adminOnly)
	auth.POST("/users", userHandler.Create, authed, adminOnly)
	auth.PUT("/users/:id", userHandler.Update, authed, adminOnly)
	auth.DELETE("/users/:id", userHandler.Delete, authed, adminOnly)

	return e
}

func seedUser(t *testing.T, repo *memUserRepo, username, email, password, role string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/auth/login", "",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token in %s", rec.Body.String())
	}
	return resp.Token
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error envelope not JSON: %s", rec.Body.String())
	}
	if resp.Error == "" {
		t.Fatalf("missing error field: %s", rec.Body.String())
	}
	return resp.Error
}

func TestAPI_AdminSession(t *testing.T) {
	repo := newMemUserRepo()
	alice := seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	e := newTestApp(repo)

	token := login(t, e, "alice", "Secret1")

	rec := doJSON(e, http.MethodGet, "/api/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.User.ID != alice.ID || me.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %s", rec.Body.String())
	}

	// Deleting your own account is always rejected.
	rec = doJSON(e, http.MethodDelete, "/api/auth/users/"+alice.ID, token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self-delete: expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	errorMessage(t, rec)
}

func TestAPI_LoginFailures(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	seedUser(t, repo, "bob", "bob@example.com", "Secret1", domain.RoleViewer, false)
	e := newTestApp(repo)

	rec := doJSON(e, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "invalid credentials" {
		t.Fatalf("message = %q", msg)
	}

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", `{"username":"ghost","password":"Secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", `{"username":"bob","password":"Secret1"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("blocked account: expected 403, got %d", rec.Code)
	}
}

func TestAPI_LoginByEmail(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	e := newTestApp(repo)

	login(t, e, "alice@example.com", "Secret1")
}

func TestAPI_RequiresAuth(t *testing.T) {
	repo := newMemUserRepo()
	e := newTestApp(repo)

	for _, path := range []string{"/api/auth/me", "/api/auth/users"} {
		rec := doJSON(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: expected 401, got %d", path, rec.Code)
		}
		errorMessage(t, rec)
	}
}

func TestAPI_AdminOnlyRoutes(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "ed", "ed@example.com", "Secret1", domain.RoleEditor, true)
	e := newTestApp(repo)

	token := login(t, e, "ed", "Secret1")

	rec := doJSON(e, http.MethodGet, "/api/auth/users", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("editor on admin route: expected 403, got %d %s", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); msg != "access denied" {
		t.Fatalf("message = %q", msg)
	}
}

func TestAPI_CreateUser_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	e := newTestApp(repo)

	token := login(t, e, "alice", "Secret1")

	body := `{"username":"carol","email":"alice@example.com","password":"Secret1","role":"viewer"}`
	rec := doJSON(e, http.MethodPost, "/api/auth/users", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	errorMessage(t, rec)
}

func TestAPI_DeactivatedUserLosesAccess(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	bob := seedUser(t, repo, "bob", "bob@example.com", "Secret1", domain.RoleViewer, true)
	e := newTestApp(repo)

	adminToken := login(t, e, "alice", "Secret1")
	bobToken := login(t, e, "bob", "Secret1")

	// Bob can see himself while active.
	if rec := doJSON(e, http.MethodGet, "/api/auth/me", bobToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("me before deactivation: %d", rec.Code)
	}

	rec := doJSON(e, http.MethodPut, "/api/auth/users/"+bob.ID, adminToken, `{"active":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: %d %s", rec.Code, rec.Body.String())
	}

	// Under the strong policy the still-valid token is now refused.
	rec = doJSON(e, http.MethodGet, "/api/auth/me", bobToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("me after deactivation: expected 403, got %d", rec.Code)
	}
}

func TestAPI_ChangePassword(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "alice", "alice@example.com", "Secret1", domain.RoleAdmin, true)
	e := newTestApp(repo)

	token := login(t, e, "alice", "Secret1")

	rec := doJSON(e, http.MethodPut, "/api/auth/change-password", token,
		`{"currentPassword":"Secret1","newPassword":"Rotated2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: %d %s", rec.Code, rec.Body.String())
	}

	// Old password no longer works, new one does.
	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"Secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", rec.Code)
	}
	login(t, e, "alice", "Rotated2")
}
