package domain

import "time"

// User represents a system user.
type User struct {
	ID             string
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
}

// Role represents a user's access level.
type Role string

const (
	// RoleCustomer can operate on accounts they own.
	RoleCustomer Role = "customer"

	// RoleBanker has read-only visibility into all accounts.
	RoleBanker Role = "banker"
)

var validRoles = map[Role]bool{
	RoleCustomer: true,
	RoleBanker:   true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutateAccounts checks if the role may deposit or withdraw.
func (r Role) CanMutateAccounts() bool {
	return r == RoleCustomer
}

// CanViewAllAccounts checks if the role may read accounts it does not own.
func (r Role) CanViewAllAccounts() bool {
	return r == RoleBanker
}
