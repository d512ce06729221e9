package model

import "time"

// Role is the closed set of account roles. Values match the integers
// stored in users.role, display labels are derived from the variant so
// the stored number can never drift from its name.
type Role int8

const (
	RoleAdmin     Role = 0
	RolePassenger Role = 1
	RoleCompany   Role = 2
	RoleAgent     Role = 3
)

// String returns the display label for the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePassenger:
		return "passenger"
	case RoleCompany:
		return "company"
	case RoleAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleAgent
}

// User represents an application account as stored in the `users` table.
// PasswordHash always holds a bcrypt digest; plaintext passwords never
// reach the storage layer. Active is the soft-deactivation flag shared
// by every table: inactive rows are kept but excluded from "current"
// queries.
type User struct {
	ID           uint64     // users.id
	Username     string     // users.username (unique)
	Email        string     // users.email (unique)
	Phone        *string    // users.phone (unique, nullable)
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	Avatar       *string    // users.avatar (stored file reference, nullable)
	Gender       *string    // users.gender (male/female/other, nullable)
	Role         Role       // users.role
	Active       bool       // users.active
	CreatedDate  time.Time  // users.created_date
	UpdatedDate  time.Time  // users.updated_date
}

// RefreshToken models a row in `refresh_tokens`. Only the SHA-256 hash
// of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
