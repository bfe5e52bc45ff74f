package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User models an authenticated actor in the system. The password hash is
// excluded from every JSON encoding, so the marshalled form is the public
// projection handed to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleSet is the configured collection of role labels accepted by the
// deployment. The taxonomy is data, not a closed enum: a deployment running
// the admin variant can configure "admin,super_admin" without code changes.
type RoleSet struct {
	roles map[string]struct{}
	order []string
}

// NewRoleSet builds a RoleSet from labels, preserving order and dropping
// blanks and duplicates. An empty input yields the default taxonomy.
func NewRoleSet(labels ...string) RoleSet {
	rs := RoleSet{roles: make(map[string]struct{})}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := rs.roles[l]; dup {
			continue
		}
		rs.roles[l] = struct{}{}
		rs.order = append(rs.order, l)
	}
	if len(rs.order) == 0 {
		return NewRoleSet(RoleAdmin, RoleEditor, RoleViewer)
	}
	return rs
}

// ParseRoleSet builds a RoleSet from a comma-separated label list.
func ParseRoleSet(s string) RoleSet {
	return NewRoleSet(strings.Split(s, ",")...)
}

// Contains reports whether role is a member of the set.
func (rs RoleSet) Contains(role string) bool {
	_, ok := rs.roles[role]
	return ok
}

// Labels returns the configured labels in their declaration order.
func (rs RoleSet) Labels() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}
