package services

import (
	"context"
	"errors"

	"github.com/cama-app/apiserver/config"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ErrInvalidCredentials is returned for both unknown usernames and
// wrong passwords, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
}

// ProfileLookup reports onboarding state for role derivation.
type ProfileLookup interface {
	ExistsByUserID(ctx context.Context, userID int) (bool, error)
}

// AuthResult is the outcome of a successful authentication.
type AuthResult struct {
	Role   string
	UserID int
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo     UserRepository
	profiles ProfileLookup
	admin    config.AdminConfig
}

func NewUserService(repo UserRepository, profiles ProfileLookup, admin config.AdminConfig) *UserService {
	return &UserService{
		repo:     repo,
		profiles: profiles,
		admin:    admin,
	}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// Register hashes the password and stores a new account. A duplicate
// username surfaces as store.ErrConflict. The plaintext password never
// leaves this function.
func (s *UserService) Register(ctx context.Context, username, password string) (types.Account, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return types.Account{}, err
	}

	return s.repo.Create(ctx, types.Account{
		Username:     username,
		PasswordHash: string(hashed),
	})
}

// Authenticate checks the configured administrator pair first; a match
// returns the admin role without any store access. Otherwise the
// account is looked up and its role derived from profile presence.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	if s.admin.Username != "" && username == s.admin.Username && password == s.admin.Password {
		return AuthResult{Role: types.RoleAdmin}, nil
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	hasProfile, err := s.profiles.ExistsByUserID(ctx, account.ID)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Role:   types.DeriveRole(hasProfile),
		UserID: account.ID,
	}, nil
}
