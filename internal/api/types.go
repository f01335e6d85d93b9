package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Roles as issued by the masomo backend.
const (
	RoleAdmin          = "admin:"
	RoleAdminOwner     = "admin:owner"
	RoleAdminPrincipal = "admin:principal"
	RoleTeacher        = "teacher:"
	RoleStudent        = "student:"
)

// AllRoles lists every role value the backend accepts.
var AllRoles = []string{RoleAdmin, RoleAdminOwner, RoleAdminPrincipal, RoleTeacher, RoleStudent}

// UserID is a user identifier. Deployments emit it either as a JSON number
// or a string, so both decode.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id UserID) String() string { return string(id) }

// User is a masomo account as returned by /users.
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  *bool     `json:"is_active,omitempty"`
	Role      string    `json:"role,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	LastLogin time.Time `json:"last_login,omitzero"`
}

// Active reports whether the account is active. Backends that omit the flag
// only return active accounts.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// AllRoles merges the single-role and multi-role fields.
func (u User) AllRoles() []string {
	if u.Role == "" {
		return u.Roles
	}
	for _, r := range u.Roles {
		if r == u.Role {
			return u.Roles
		}
	}
	return append([]string{u.Role}, u.Roles...)
}

// Credentials are posted to /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// NewUser is the body of POST /users.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

// UpdateUser is the body of PUT /users/:id.
type UpdateUser struct {
	Name            string   `json:"name"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	IsActive        *bool    `json:"is_active,omitempty"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
	Password        string   `json:"password,omitempty"`
	PasswordConfirm string   `json:"password_confirm,omitempty" validate:"required_with=Password,eqfield=Password"`
}

// UpdateFrom builds an UpdateUser carrying u's current values.
func UpdateFrom(u User) UpdateUser {
	active := u.Active()
	return UpdateUser{
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		IsActive: &active,
		Roles:    u.AllRoles(),
	}
}
