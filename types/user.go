package types

import "time"

// Roles an authenticated caller can hold. Admin never corresponds to a
// stored account; it is granted when the configured administrator
// credential pair matches. A registered account is a pending user until
// a profile row exists for it.
const (
	RoleAdmin       = "admin"
	RoleUser        = "user"
	RolePendingUser = "puser"
)

// DeriveRole maps the presence of a profile to the effective role of a
// stored account. Admin is decided before any account lookup and never
// flows through here.
func DeriveRole(hasProfile bool) string {
	if hasProfile {
		return RoleUser
	}
	return RolePendingUser
}

// Account represents an authentication identity in the system.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"user_id" db:"user_id"`

	// Username is the unique login name chosen at signup.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the account password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Profile holds the onboarding details tied to an Account. The presence
// of a Profile row is what promotes an account from "puser" to "user".
type Profile struct {
	// ID is the unique identifier of the profile row.
	ID int `json:"profile_id" db:"profile_id"`

	// UserID references the owning account; one profile per account.
	UserID int `json:"user_id" db:"user_id"`

	// FullName is the person's display name.
	FullName string `json:"full_name" db:"full_name"`

	// Email is the contact address, also used for OTP delivery.
	Email string `json:"email" db:"email"`

	// DateOfBirth is stored in YYYY-MM-DD form.
	DateOfBirth string `json:"date_of_birth" db:"date_of_birth"`

	Gender      string `json:"gender" db:"gender"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	// ProfilePicture is the relative path of the uploaded picture,
	// empty when none was provided.
	ProfilePicture string `json:"profile_picture,omitempty" db:"profile_picture"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
