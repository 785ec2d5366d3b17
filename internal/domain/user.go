package domain

import "time"

// Role enumerates account roles. Each account holds exactly one role;
// promotions replace it through an explicit SetRole rather than mutating a
// shared role collection.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleStaff Role = "ROLE_STAFF"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User is the domain model for accounts that submit or handle complaints.
type User struct {
	ID           int64
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
