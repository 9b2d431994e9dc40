package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cama-app/apiserver/config"
	"github.com/cama-app/apiserver/internal/services"
	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type authUserRepoMock struct {
	byID       map[int]types.Account
	byUsername map[string]types.Account
	nextID     int
}

func (m *authUserRepoMock) GetByID(_ context.Context, id int) (types.Account, error) {
	if account, ok := m.byID[id]; ok {
		return account, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (m *authUserRepoMock) GetByUsername(_ context.Context, username string) (types.Account, error) {
	if account, ok := m.byUsername[username]; ok {
		return account, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (m *authUserRepoMock) Create(_ context.Context, account types.Account) (types.Account, error) {
	if _, exists := m.byUsername[account.Username]; exists {
		return types.Account{}, store.ErrConflict
	}
	if m.byID == nil {
		m.byID = map[int]types.Account{}
		m.byUsername = map[string]types.Account{}
	}
	m.nextID++
	account.ID = m.nextID
	m.byID[account.ID] = account
	m.byUsername[account.Username] = account
	return account, nil
}

type authProfileRepoMock struct {
	exists map[int]bool
}

func (m *authProfileRepoMock) Create(_ context.Context, profile types.Profile) (types.Profile, error) {
	if m.exists == nil {
		m.exists = map[int]bool{}
	}
	if m.exists[profile.UserID] {
		return types.Profile{}, store.ErrConflict
	}
	m.exists[profile.UserID] = true
	profile.ID = len(m.exists)
	return profile, nil
}

func (m *authProfileRepoMock) ExistsByUserID(_ context.Context, userID int) (bool, error) {
	return m.exists[userID], nil
}

func (m *authProfileRepoMock) ListNames(_ context.Context) ([]store.ProfileName, error) {
	return nil, nil
}

func newAuthTestRouter(users *authUserRepoMock, profiles *authProfileRepoMock, admin config.AdminConfig, secret string) *chi.Mux {
	userService := services.NewUserService(users, profiles, admin)
	profileService := services.NewProfileService(profiles, storage.NewStorage(newHandlerMemBackend()))
	router := chi.NewRouter()
	AuthRouter(router, userService, profileService, secret)
	return router
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hashed)
}

func seedAccount(t *testing.T, users *authUserRepoMock, username, password string) types.Account {
	t.Helper()
	account, err := users.Create(context.Background(), types.Account{
		Username:     username,
		PasswordHash: mustHash(t, password),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func TestSignup(t *testing.T) {
	router := newAuthTestRouter(&authUserRepoMock{}, &authProfileRepoMock{}, config.AdminConfig{}, "secret")

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"alice","password":"pw12345"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp SignupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "User registered successfully!" || resp.User.Username != "alice" || resp.User.ID == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Same username again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"alice","password":"other"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
	var dup MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decode duplicate response: %v", err)
	}
	if dup.Message != "Username already exists." {
		t.Fatalf("duplicate message = %q", dup.Message)
	}
}

func TestSignupValidation(t *testing.T) {
	router := newAuthTestRouter(&authUserRepoMock{}, &authProfileRepoMock{}, config.AdminConfig{}, "secret")

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"","password":"pw"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "All fields are required." {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestLoginRoles(t *testing.T) {
	users := &authUserRepoMock{}
	profiles := &authProfileRepoMock{exists: map[int]bool{}}
	admin := config.AdminConfig{Username: "admin", Password: "hunter2"}
	router := newAuthTestRouter(users, profiles, admin, "secret")

	account := seedAccount(t, users, "bob", "pw12345")

	login := func(body string) LoginResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return resp
	}

	resp := login(`{"username":"bob","password":"pw12345"}`)
	if !resp.Success || resp.Role != types.RolePendingUser || resp.UserID != account.ID {
		t.Fatalf("pending login: %+v", resp)
	}
	if resp.Token == "" {
		t.Fatal("non-admin login carries no token")
	}

	profiles.exists[account.ID] = true
	resp = login(`{"username":"bob","password":"pw12345"}`)
	if resp.Role != types.RoleUser {
		t.Fatalf("role after profile = %s", resp.Role)
	}

	resp = login(`{"username":"admin","password":"hunter2"}`)
	if !resp.Success || resp.Role != types.RoleAdmin {
		t.Fatalf("admin login: %+v", resp)
	}
	if resp.Token != "" {
		t.Fatal("admin login should not carry a token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	users := &authUserRepoMock{}
	router := newAuthTestRouter(users, &authProfileRepoMock{}, config.AdminConfig{}, "secret")

	seedAccount(t, users, "carol", "pw12345")

	// Auth failures keep HTTP 200; the client branches on the success flag.
	for _, body := range []string{
		`{"username":"carol","password":"wrong"}`,
		`{"username":"nobody","password":"pw12345"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("body %q: status = %d", body, rec.Code)
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Success || resp.Message != "Invalid credentials" {
			t.Fatalf("body %q: %+v", body, resp)
		}
	}
}

func TestMeRequiresToken(t *testing.T) {
	users := &authUserRepoMock{}
	router := newAuthTestRouter(users, &authProfileRepoMock{}, config.AdminConfig{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}
}

func TestMeWithToken(t *testing.T) {
	users := &authUserRepoMock{}
	router := newAuthTestRouter(users, &authProfileRepoMock{}, config.AdminConfig{}, "secret")

	account := seedAccount(t, users, "dave", "pw12345")

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"dave","password":"pw12345"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var login LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("no token issued")
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var me types.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != account.ID || me.Username != "dave" {
		t.Fatalf("unexpected account: %+v", me)
	}
}
