package model

import "time"

// Role names accepted for the users.role column. RoleUser is the
// default assigned at registration when no role is supplied.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleSalesRep = "sales_rep"
	RoleUser     = "user"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleManager, RoleSalesRep, RoleUser:
		return true
	}
	return false
}

// User mirrors the `users` table. The password hash is never
// serialized; handlers return the struct as-is in responses.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
