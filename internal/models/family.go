package models

import "time"

// FamilyRole is the closed set of roles a family member can hold
type FamilyRole string

const (
	RoleOwner  FamilyRole = "owner"
	RoleAdmin  FamilyRole = "admin"
	RoleMember FamilyRole = "member"
)

// Valid reports whether the role is one of the known values
func (r FamilyRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Family represents a shared household group
type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"created_by"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FamilyMember ties a user to a family with a role
type FamilyMember struct {
	ID       string     `json:"id"`
	FamilyID string     `json:"family_id"`
	UserID   string     `json:"user_id"`
	Role     FamilyRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// FamilyMemberInfo is a member record enriched with the referenced user's
// name and email. It is a read-only projection, never persisted.
type FamilyMemberInfo struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserEmail string     `json:"user_email"`
	Role      FamilyRole `json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`
}
