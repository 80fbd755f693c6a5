package session

import "net/http"

// Cookie names the auth provider issues. Candidates authenticate against
// their own realm with a separately named cookie; companies and admins share
// the main realm. The __Secure- variants are set on HTTPS deployments and win
// when both are present.
const (
	CandidateCookieName       = "candidate-auth.session-token"
	SecureCandidateCookieName = "__Secure-candidate-auth.session-token"

	MainCookieName       = "auth.session-token"
	SecureMainCookieName = "__Secure-auth.session-token"
)

// CandidateTokenFromRequest extracts the raw candidate session token from the
// request cookies. Returns false when neither cookie is present.
func CandidateTokenFromRequest(r *http.Request) (string, bool) {
	return firstCookie(r, SecureCandidateCookieName, CandidateCookieName)
}

// MainTokenFromRequest extracts the raw company/admin session token.
func MainTokenFromRequest(r *http.Request) (string, bool) {
	return firstCookie(r, SecureMainCookieName, MainCookieName)
}

func firstCookie(r *http.Request, names ...string) (string, bool) {
	for _, name := range names {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}
