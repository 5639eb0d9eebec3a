package identity

import (
	"context"
	"strings"
)

// DefaultRole is assumed when the gateway forwards no roles for a user.
const DefaultRole = "USER"

// Context is the request-scoped identity reconstructed from gateway trust
// headers. It is carried by convention, not re-verified; services must only be
// reachable through the gateway.
type Context struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

// HasRole reports whether the identity carries the given role (case-sensitive;
// roles are normalized to upper case on parse).
func (c *Context) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRoles splits a comma-separated roles header, trimming and upper-casing
// each entry. An empty header yields the single default role.
func ParseRoles(header string) []string {
	if strings.TrimSpace(header) == "" {
		return []string{DefaultRole}
	}
	parts := strings.Split(header, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.ToUpper(strings.TrimSpace(p)); r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) == 0 {
		return []string{DefaultRole}
	}
	return roles
}

type contextKey struct{}

// WithContext returns ctx carrying the identity. Always threaded explicitly;
// there is no ambient or process-wide current-user accessor.
func WithContext(ctx context.Context, id *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity from ctx and true if set; otherwise nil, false.
func FromContext(ctx context.Context) (*Context, bool) {
	id, ok := ctx.Value(contextKey{}).(*Context)
	return id, ok
}
