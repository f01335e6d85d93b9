// Package users is the account management screen: the /users endpoint
// shown through a tabular view, with add, edit and delete wired back to the
// API.
package users

import (
	"strings"
	"time"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/tabular"
	"github.com/masomo/roster/internal/util"
)

// Record keys.
const (
	KeyID        = "id"
	KeyName      = "name"
	KeyUsername  = "username"
	KeyEmail     = "email"
	KeyRoles     = "roles"
	KeyActive    = "active"
	KeyCreatedAt = "created_at"
	KeyLastLogin = "last_login"
)

// SearchKeys are the fields the search box matches against.
var SearchKeys = []string{KeyUsername, KeyEmail, KeyName}

// ToRecord flattens a user for the table.
func ToRecord(u api.User) tabular.Record {
	return tabular.Record{
		KeyID:        u.ID.String(),
		KeyName:      util.ToValidUTF8(u.Name),
		KeyUsername:  u.Username,
		KeyEmail:     u.Email,
		KeyRoles:     u.AllRoles(),
		KeyActive:    u.Active(),
		KeyCreatedAt: u.CreatedAt,
		KeyLastLogin: u.LastLogin,
	}
}

// ToRecords converts a page of users, preserving order.
func ToRecords(users []api.User) []tabular.Record {
	out := make([]tabular.Record, len(users))
	for i, u := range users {
		out[i] = ToRecord(u)
	}
	return out
}

// RecordID returns the user id carried by a record built with ToRecord.
func RecordID(r tabular.Record) api.UserID {
	return api.UserID(r.Text(KeyID))
}

// Find looks a user up by id, username or email. Username and email match
// case-insensitively.
func Find(users []api.User, ref string) (api.User, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return api.User{}, false
	}
	for _, u := range users {
		if u.ID.String() == ref {
			return u, true
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, ref) || (u.Email != "" && strings.EqualFold(u.Email, ref)) {
			return u, true
		}
	}
	return api.User{}, false
}

// Columns is the users table layout.
func Columns() []tabular.Column {
	return []tabular.Column{
		{Key: KeyUsername, Title: "Username", Width: 2, Sortable: true},
		{Key: KeyName, Title: "Name", Width: 2, Sortable: true},
		{Key: KeyEmail, Title: "Email", Width: 3, Sortable: true},
		{Key: KeyRoles, Title: "Roles", Width: 2, Renderer: tabular.RenderFunc(renderRoles)},
		{Key: KeyActive, Title: "Active", Width: 1, Sortable: true, Renderer: tabular.RenderFunc(renderActive)},
		{Key: KeyLastLogin, Title: "Last login", Width: 2, Sortable: true, Renderer: tabular.RenderFunc(renderLastLogin)},
	}
}

// renderRoles drops the trailing colon of bare roles: "teacher:" reads as
// "teacher".
func renderRoles(r tabular.Record) string {
	v, _ := r.Lookup(KeyRoles)
	roles, _ := v.([]string)
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = strings.TrimSuffix(role, ":")
	}
	return strings.Join(out, ", ")
}

func renderActive(r tabular.Record) string {
	if v, ok := r.Lookup(KeyActive); ok && v == false {
		return "no"
	}
	return "yes"
}

func renderLastLogin(r tabular.Record) string {
	v, _ := r.Lookup(KeyLastLogin)
	t, _ := v.(time.Time)
	return util.RelativeTime(t)
}
