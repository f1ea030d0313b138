package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookvault/api/internal/models"
)

// Policy is one row of the authorization table: what a passed access
// guard must additionally satisfy before the handler runs. A failed
// policy is 403, distinct from the guard's 401.
type Policy struct {
	AdminOnly bool
	// SelfOrAdmin grants non-admins access when the :id path param
	// equals their own subject.
	SelfOrAdmin bool
	// DenySelf refuses the operation on the caller's own account
	// even for admins.
	DenySelf bool
}

var policies = map[string]Policy{
	"users.create": {AdminOnly: true},
	"users.list":   {AdminOnly: true},
	"users.get":    {SelfOrAdmin: true},
	"users.update": {SelfOrAdmin: true},
	"users.delete": {AdminOnly: true, DenySelf: true},
}

// Check applies a policy to recovered claims and a target account id.
// Exposed separately from the echo wiring so the table is testable on
// its own.
func Check(p Policy, role, subject, targetID string) bool {
	if p.DenySelf && subject == targetID {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	if p.AdminOnly {
		return false
	}
	if p.SelfOrAdmin {
		return subject == targetID
	}
	return true
}

// Authorize looks up the named operation in the policy table and
// enforces it. It must run after RequireAccess.
func Authorize(operation string) echo.MiddlewareFunc {
	p, ok := policies[operation]
	if !ok {
		panic("unknown operation in policy table: " + operation)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			if !Check(p, claims.Role, claims.Subject, c.Param("id")) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient rights")
			}
			return next(c)
		}
	}
}
