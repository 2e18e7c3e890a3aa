package kernel

import "strings"

const ScopeAll = "*"

// AuthContext is the authenticated principal attached to a request
type AuthContext struct {
	UserID   *UserID  `json:"user_id,omitempty"`
	TenantID TenantID `json:"tenant_id"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Scopes   []string `json:"scopes"`
}

func (a *AuthContext) IsValid() bool {
	return a != nil && !a.TenantID.IsEmpty()
}

// HasScope checks scope against every grant. "*" covers everything and
// "resource:*" covers every action on resource.
func (a *AuthContext) HasScope(scope string) bool {
	for _, granted := range a.Scopes {
		if ScopeCovers(granted, scope) {
			return true
		}
	}
	return false
}

func (a *AuthContext) HasAnyScope(scopes ...string) bool {
	for _, s := range scopes {
		if a.HasScope(s) {
			return true
		}
	}
	return false
}

func (a *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, s := range scopes {
		if !a.HasScope(s) {
			return false
		}
	}
	return true
}

func ScopeCovers(granted, required string) bool {
	if granted == ScopeAll || granted == required {
		return true
	}
	resource, action, ok := strings.Cut(granted, ":")
	if !ok || action != "*" {
		return false
	}
	return strings.HasPrefix(required, resource+":")
}
