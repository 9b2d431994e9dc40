package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cama-app/apiserver/config"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

type userRepoMock struct {
	byID       map[int]types.Account
	byUsername map[string]types.Account
	nextID     int
	createErr  error
}

func (m *userRepoMock) GetByID(_ context.Context, id int) (types.Account, error) {
	if account, ok := m.byID[id]; ok {
		return account, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (m *userRepoMock) GetByUsername(_ context.Context, username string) (types.Account, error) {
	if account, ok := m.byUsername[username]; ok {
		return account, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (m *userRepoMock) Create(_ context.Context, account types.Account) (types.Account, error) {
	if m.createErr != nil {
		return types.Account{}, m.createErr
	}
	if _, exists := m.byUsername[account.Username]; exists {
		return types.Account{}, store.ErrConflict
	}
	if m.byID == nil {
		m.byID = make(map[int]types.Account)
		m.byUsername = make(map[string]types.Account)
	}
	m.nextID++
	account.ID = m.nextID
	m.byID[account.ID] = account
	m.byUsername[account.Username] = account
	return account, nil
}

type profileLookupMock struct {
	exists map[int]bool
	err    error
}

func (m *profileLookupMock) ExistsByUserID(_ context.Context, userID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists[userID], nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &userRepoMock{}
	service := NewUserService(repo, &profileLookupMock{}, config.AdminConfig{})

	account, err := service.Register(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.ID == 0 {
		t.Fatal("expected assigned id")
	}

	stored := repo.byUsername["alice"]
	if stored.PasswordHash == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &userRepoMock{}
	service := NewUserService(repo, &profileLookupMock{}, config.AdminConfig{})

	if _, err := service.Register(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := service.Register(context.Background(), "alice", "other"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthenticateAdminBypass(t *testing.T) {
	admin := config.AdminConfig{Username: "admin", Password: "hunter2"}
	service := NewUserService(&userRepoMock{}, &profileLookupMock{}, admin)

	result, err := service.Authenticate(context.Background(), "admin", "hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.Role != types.RoleAdmin {
		t.Fatalf("expected admin role, got %s", result.Role)
	}
	if result.UserID != 0 {
		t.Fatalf("admin has no account id, got %d", result.UserID)
	}
}

func TestAuthenticateAdminNotConfigured(t *testing.T) {
	// With no admin pair set, an empty submitted pair must not match.
	service := NewUserService(&userRepoMock{}, &profileLookupMock{}, config.AdminConfig{})

	if _, err := service.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateRoleDerivation(t *testing.T) {
	repo := &userRepoMock{}
	profiles := &profileLookupMock{exists: map[int]bool{}}
	service := NewUserService(repo, profiles, config.AdminConfig{})

	account, err := service.Register(context.Background(), "bob", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := service.Authenticate(context.Background(), "bob", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.Role != types.RolePendingUser {
		t.Fatalf("expected %s before profile setup, got %s", types.RolePendingUser, result.Role)
	}
	if result.UserID != account.ID {
		t.Fatalf("expected user id %d, got %d", account.ID, result.UserID)
	}

	profiles.exists[account.ID] = true
	result, err = service.Authenticate(context.Background(), "bob", "secret123")
	if err != nil {
		t.Fatalf("authenticate after profile: %v", err)
	}
	if result.Role != types.RoleUser {
		t.Fatalf("expected %s after profile setup, got %s", types.RoleUser, result.Role)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	repo := &userRepoMock{}
	service := NewUserService(repo, &profileLookupMock{}, config.AdminConfig{})

	if _, err := service.Register(context.Background(), "carol", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Authenticate(context.Background(), "carol", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
