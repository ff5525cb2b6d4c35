package domain

import "time"

// Role is the access level of a registered identity.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

// ValidRole reports whether s is a member of the role enum.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// Identity is a registered user. Email is stored trimmed and lower-cased;
// uniqueness is enforced at write time. PasswordHash never leaves the server.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary returns the outward-facing view of the identity.
func (i *Identity) Summary() UserSummary {
	return UserSummary{ID: i.ID, Name: i.Name, Email: i.Email, Role: i.Role}
}

// UserSummary is the identity shape returned by auth and admin endpoints.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthUser is the identity resolved from a verified bearer token. The auth
// middleware attaches it to the request context and handlers pass it
// explicitly into every service call.
type AuthUser struct {
	ID   string
	Role Role
}
