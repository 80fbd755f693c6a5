package access

import "strings"

// Route tables. Order matters: Classify checks passthrough, public, interview,
// then candidate dashboard; everything else is the sessioned role gate.

// publicRoutes need no session state at all. "/" matches exactly, the rest by
// prefix.
var publicRoutes = []string{
	"/",
	"/about",
	"/pricing",
	"/contact",
	"/jobs",
	"/auth/signin",
	"/auth/signup",
	"/auth/error",
	"/auth/forgot-password",
	"/candidate/signin",
	"/candidate/signup",
	"/candidate/verify",
}

// passthroughPrefixes are never gated: API routes keep their own handler-side
// checks, the rest is framework internals and static assets.
var passthroughPrefixes = []string{
	"/api/",
	"/_next/",
	"/static/",
	"/assets/",
	"/metrics",
	"/healthz",
	"/favicon.ico",
}

// superAdminDashboardAllow lists the /dashboard sections a super-admin may use
// directly; anything else under /dashboard sends them to /admin.
var superAdminDashboardAllow = []string{
	"/dashboard/settings",
	"/dashboard/account",
}

const (
	interviewPrefix     = "/candidate/interview/"
	candidatePrefix     = "/candidate"
	bffCandidatePrefix  = "/bff/candidate"
	dashboardPrefix     = "/dashboard"
	adminPrefix         = "/admin"
	candidateSigninPath = "/candidate/signin"
	candidateHomePath   = "/candidate"
	signinPath          = "/auth/signin"
)

// Classify maps a request path to its route class. Pure function of the path.
func Classify(path string) RouteClass {
	for _, prefix := range passthroughPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassPassthrough
		}
	}

	if path == "/" {
		return ClassPublic
	}
	for _, route := range publicRoutes[1:] {
		if matchesPrefix(path, route) {
			return ClassPublic
		}
	}

	if strings.HasPrefix(path, interviewPrefix) {
		return ClassCandidateInterview
	}
	// The candidate BFF aggregates inherit the gate of the pages they serve.
	if matchesPrefix(path, candidatePrefix) || matchesPrefix(path, bffCandidatePrefix) {
		return ClassCandidateDashboard
	}

	return ClassRoleGate
}

// matchesPrefix matches whole path segments: "/candidate" matches
// "/candidate" and "/candidate/documents" but not "/candidates".
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func underDashboard(path string) bool { return matchesPrefix(path, dashboardPrefix) }
func underAdmin(path string) bool     { return matchesPrefix(path, adminPrefix) }

func dashboardAllowListed(path string) bool {
	for _, allowed := range superAdminDashboardAllow {
		if matchesPrefix(path, allowed) {
			return true
		}
	}
	return false
}
