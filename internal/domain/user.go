package domain

import "time"

// Role governs which role gates a caller passes.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the moderation state of a user account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// IsValid checks if the user status is one of the known values.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User represents a registered account. Email is the external identity key
// across all ownership relations (donation requests, token claims).
type User struct {
	ID         string     `json:"_id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar,omitempty"`
	BloodGroup string     `json:"bloodGroup"`
	District   string     `json:"district"`
	Upazila    string     `json:"upazila"`
	Role       Role       `json:"role"`
	Status     UserStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsBlocked returns true if the account has been blocked by an admin.
func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}
