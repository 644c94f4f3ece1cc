package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
)

func TestRouteFor(t *testing.T) {
	cases := []struct {
		role  domain.Role
		route string
	}{
		{domain.RoleRequester, RouteRequestForm},
		{domain.RoleChecker, RouteIncomingRequest},
		{domain.RoleApproval, RouteIncomingRequest},
		{domain.RoleReleaser, RouteIncomingRequest},
	}
	for _, tc := range cases {
		route, err := RouteFor(tc.role)
		require.NoError(t, err)
		require.Equal(t, tc.route, route)
	}

	_, err := RouteFor(domain.Role("Auditor"))
	require.ErrorIs(t, err, ErrUnmappedRole)
}

func TestIsAuthPath(t *testing.T) {
	for _, path := range []string{"/auth/login", "/auth/register", "/auth/reset-password", "/auth/verify-email"} {
		require.True(t, IsAuthPath(path), path)
	}
	require.False(t, IsAuthPath("/requester/request-form"))
	require.False(t, IsAuthPath("/auth/login/"))
}

func TestRedirect_UnauthenticatedBouncesToLogin(t *testing.T) {
	redirect, err := Redirect("/requester/incoming-request", false, "")
	require.NoError(t, err)
	require.Equal(t, "/auth/login", redirect)

	// Auth-flow pages stay reachable without a session.
	redirect, err = Redirect("/auth/register", false, "")
	require.NoError(t, err)
	require.Empty(t, redirect)
}

func TestRedirect_AuthenticatedLeavesAppPathsAlone(t *testing.T) {
	redirect, err := Redirect("/requester/incoming-request", true, domain.RoleChecker)
	require.NoError(t, err)
	require.Empty(t, redirect)

	// Non-dashboard app paths stand as requested.
	redirect, err = Redirect("/requester/request-detail/REQ-001", true, domain.RoleChecker)
	require.NoError(t, err)
	require.Empty(t, redirect)
}

func TestRedirect_WrongDashboardBouncesToOwnRoute(t *testing.T) {
	redirect, err := Redirect(RouteRequestForm, true, domain.RoleChecker)
	require.NoError(t, err)
	require.Equal(t, RouteIncomingRequest, redirect)

	redirect, err = Redirect(RouteIncomingRequest, true, domain.RoleRequester)
	require.NoError(t, err)
	require.Equal(t, RouteRequestForm, redirect)

	_, err = Redirect(RouteRequestForm, true, domain.Role("Auditor"))
	require.ErrorIs(t, err, ErrUnmappedRole)
}

func TestRedirect_AuthenticatedOnAuthPathLandsOnRole(t *testing.T) {
	redirect, err := Redirect("/auth/login", true, domain.RoleRequester)
	require.NoError(t, err)
	require.Equal(t, RouteRequestForm, redirect)

	redirect, err = Redirect("/auth/login", true, domain.RoleReleaser)
	require.NoError(t, err)
	require.Equal(t, RouteIncomingRequest, redirect)

	_, err = Redirect("/auth/login", true, domain.Role("Auditor"))
	require.ErrorIs(t, err, ErrUnmappedRole)
}
