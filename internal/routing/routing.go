// Package routing centralizes role-based navigation: which landing route each
// approval-chain role owns and which paths stay reachable without a session.
package routing

import (
	"errors"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
)

// Landing routes per role. Requesters land on the request form; everyone in
// the approval chain lands on the incoming-request queue.
const (
	RouteRequestForm     = "/requester/request-form"
	RouteIncomingRequest = "/requester/incoming-request"
)

// ErrUnmappedRole signals a role with no landing route. Unknown roles must
// not silently land on a queue they have no business seeing.
var ErrUnmappedRole = errors.New("role has no landing route")

var landingRoutes = map[domain.Role]string{
	domain.RoleRequester: RouteRequestForm,
	domain.RoleChecker:   RouteIncomingRequest,
	domain.RoleApproval:  RouteIncomingRequest,
	domain.RoleReleaser:  RouteIncomingRequest,
}

// RouteFor resolves the landing route for a role.
func RouteFor(role domain.Role) (string, error) {
	route, ok := landingRoutes[role]
	if !ok {
		return "", ErrUnmappedRole
	}
	return route, nil
}

// Auth-flow paths reachable without a session.
var authPaths = map[string]struct{}{
	"/auth/login":          {},
	"/auth/register":       {},
	"/auth/reset-password": {},
	"/auth/verify-email":   {},
}

// IsAuthPath reports whether a path belongs to the unauthenticated auth flow.
func IsAuthPath(path string) bool {
	_, ok := authPaths[path]
	return ok
}

// Dashboard paths a signed-in user can be steered between. A role only ever
// lands on its own entry.
var dashboardPaths = map[string]struct{}{
	RouteRequestForm:     {},
	RouteIncomingRequest: {},
}

// IsDashboardPath reports whether a path is one of the role landing routes.
func IsDashboardPath(path string) bool {
	_, ok := dashboardPaths[path]
	return ok
}

// Redirect decides where a navigation attempt should land. An unauthenticated
// visit to anything outside the auth flow bounces to login; an authenticated
// visit to an auth path bounces to the role's landing route, and so does a
// visit to a dashboard path that belongs to a different role. An empty result
// means the requested path stands.
func Redirect(path string, authenticated bool, role domain.Role) (string, error) {
	if !authenticated {
		if IsAuthPath(path) {
			return "", nil
		}
		return "/auth/login", nil
	}
	if IsAuthPath(path) {
		return RouteFor(role)
	}
	if IsDashboardPath(path) {
		route, err := RouteFor(role)
		if err != nil {
			return "", err
		}
		if route != path {
			return route, nil
		}
	}
	return "", nil
}
