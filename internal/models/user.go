package models

import "github.com/assuredtransfer/aft-request-api/internal/workflow"

// User represents the AFT_USER table. PasswordHash never leaves the DAO
// layer except for login verification.
type User struct {
	UserID       string `db:"USER_ID" json:"userId"`
	Email        string `db:"EMAIL" json:"email"`
	FullName     string `db:"FULL_NAME" json:"fullName"`
	PasswordHash string `db:"PASSWORD_HASH" json:"-"`
	PrimaryRole  string `db:"PRIMARY_ROLE" json:"primaryRole"`
	Active       bool   `db:"ACTIVE" json:"active"`
	CreatedTime  int64  `db:"CREATED_TIME" json:"createdTime"`
}

// EffectiveRoles is the union of the primary role and the additional role
// assignments from AFT_USER_ROLE.
func (u *User) EffectiveRoles(additional []string) []workflow.Role {
	seen := map[workflow.Role]struct{}{}
	roles := make([]workflow.Role, 0, len(additional)+1)
	add := func(r workflow.Role) {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
	}
	add(workflow.Role(u.PrimaryRole))
	for _, r := range additional {
		add(workflow.Role(r))
	}
	return roles
}

// LoginRequest is the API payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	UserID    string   `json:"userId"`
	FullName  string   `json:"fullName"`
	Roles     []string `json:"roles"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	PrimaryRole string   `json:"primaryRole"`
	Roles       []string `json:"roles"`
	Active      bool     `json:"active"`
}
