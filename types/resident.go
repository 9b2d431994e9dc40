package types

import "time"

// Resident is an account promoted to tenant status by an administrator.
type Resident struct {
	ID            int       `json:"resident_id" db:"resident_id"`
	UserID        int       `json:"user_id" db:"user_id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Apartment     string    `json:"apartment" db:"apartment"`
	ContactNumber string    `json:"contact_number" db:"contact_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// FamilyMember belongs to a Resident and is deleted independently by id.
type FamilyMember struct {
	ID           int    `json:"member_id" db:"member_id"`
	ResidentID   int    `json:"resident_id" db:"resident_id"`
	Name         string `json:"name" db:"name"`
	Age          int    `json:"age" db:"age"`
	Relationship string `json:"relationship" db:"relationship"`
}

// RentalAgreement records the financial terms for one resident's tenancy.
type RentalAgreement struct {
	ID              int     `json:"id" db:"id"`
	UserID          int     `json:"user_id" db:"user_id"`
	MonthlyRent     float64 `json:"monthly_rent" db:"monthly_rent"`
	SecurityDeposit float64 `json:"security_deposit" db:"security_deposit"`
	NoticePeriod    int     `json:"notice_period" db:"notice_period"`
}
