package access

import (
	"net/url"
	"regexp"

	"talentgate/pkg/domain"
)

// candidateEmailRx validates the interview email query parameter. Deliberately
// loose: it rejects obvious junk, nothing more.
var candidateEmailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Evaluate applies the route authorization rules to produce a decision.
// This is pure domain logic - no I/O, no side effects. The middleware fills
// Input with exactly the state the request's route class requires.
func Evaluate(in Input) Decision {
	class := Classify(in.Path)
	switch class {
	case ClassPassthrough:
		return Decision{Action: ActionNext, Class: class, Reason: ReasonPassthrough}
	case ClassPublic:
		return Decision{Action: ActionNext, Class: class, Reason: ReasonPublicRoute}
	case ClassCandidateInterview:
		return evaluateInterviewGate(in)
	case ClassCandidateDashboard:
		return evaluateCandidateDashboardGate(in)
	default:
		return evaluateRoleGate(in)
	}
}

// evaluateInterviewGate guards the interview lobby. Rule order (first failure
// wins):
//  1. Valid candidate session token - identity baseline.
//  2. authenticated=true marker carried from the dashboard. This is a
//     client-supplied literal, a deep-link guard rather than a security
//     boundary; the gate preserves that exact behavior.
//  3. email query parameter must look like an email.
func evaluateInterviewGate(in Input) Decision {
	d := Decision{Class: ClassCandidateInterview}

	if !in.HasCandidateCookie {
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonMissingCookie, candidateSigninPath
		return d
	}
	if in.CandidateClaims == nil {
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonInvalidToken, candidateSigninPath
		return d
	}

	if in.Query.Get("authenticated") != "true" {
		// Deep link without the dashboard marker: back to the dashboard,
		// not to sign-in - the candidate is already authenticated.
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonMissingMarker, candidateHomePath
		return d
	}

	email := in.Query.Get("email")
	if !candidateEmailRx.MatchString(email) {
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonInvalidEmail, candidateSigninPath
		return d
	}

	d.Action = ActionNext
	d.Reason = ReasonAllowed
	d.Headers = map[string]string{
		HeaderCandidateEmail:         email,
		HeaderCandidateAuthenticated: "true",
	}
	return d
}

// evaluateCandidateDashboardGate guards /candidate pages. Cookie presence
// alone admits; when the token also validates, the claims' identity travels
// as headers so BFF and upstream calls know the caller. Without the cookie, a
// resolved non-candidate session is sent home, everyone else to candidate
// sign-in.
func evaluateCandidateDashboardGate(in Input) Decision {
	d := Decision{Class: ClassCandidateDashboard}

	if in.HasCandidateCookie {
		d.Action = ActionNext
		d.Reason = ReasonAllowed
		d.Headers = map[string]string{HeaderDashboardAccess: "true"}
		if c := in.CandidateClaims; c != nil {
			d.Headers[HeaderUserID] = c.UserID
			d.Headers[HeaderUserRole] = c.Role
			d.Headers[HeaderCandidateEmail] = c.Email
		}
		return d
	}

	if in.Session != nil && in.Session.Role != domain.RoleCandidate {
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonRoleMismatch, in.Session.Role.Home()
		return d
	}

	d.Action, d.Reason, d.Location = ActionRedirect, ReasonMissingCookie, candidateSigninPath
	return d
}

// evaluateRoleGate applies the role redirect table to everything that is
// neither public nor candidate-gated.
func evaluateRoleGate(in Input) Decision {
	d := Decision{Class: ClassRoleGate}

	if in.Session == nil {
		d.Action = ActionRedirect
		d.Reason = ReasonUnauthenticated
		d.Location = signinRedirect(in.Path, in.Query)
		return d
	}

	role := in.Session.Role
	switch {
	case role == domain.RoleCandidate && (underDashboard(in.Path) || underAdmin(in.Path)):
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonRoleMismatch, candidateHomePath
		return d

	case role != domain.RoleSuperAdmin && underAdmin(in.Path):
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonRoleMismatch, role.Home()
		return d

	case role == domain.RoleSuperAdmin && underDashboard(in.Path) && !dashboardAllowListed(in.Path):
		d.Action, d.Reason, d.Location = ActionRedirect, ReasonSuperAdminScope, adminPrefix
		return d
	}

	d.Action = ActionNext
	d.Reason = ReasonAllowed
	d.Headers = identityHeaders(in)
	return d
}

// identityHeaders builds the downstream header set for an allowed sessioned
// request.
func identityHeaders(in Input) map[string]string {
	headers := map[string]string{
		HeaderUserID:   in.Session.UserID,
		HeaderUserRole: string(in.Session.Role),
	}
	if in.Session.CompanyID != "" {
		headers[HeaderCompanyID] = in.Session.CompanyID
	}
	if in.Session.Role == domain.RoleSuperAdmin {
		headers[HeaderSuperAdmin] = "true"
	}
	return headers
}

// signinRedirect builds the sign-in URL with the original request as callback.
func signinRedirect(path string, query url.Values) string {
	callback := path
	if encoded := query.Encode(); encoded != "" {
		callback += "?" + encoded
	}
	return signinPath + "?callbackUrl=" + url.QueryEscape(callback)
}
