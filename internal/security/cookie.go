package security

import (
	"net/http"
	"strings"
	"time"
)

const (
	SessionCookieName     = "session_token"
	CSRFCookieName        = "csrf_token"
	OAuthStateCookieName  = "oauth_state"
	CallbackURLCookieName = "auth_callback_url"

	oauthCookiePath = "/api/auth"
	oauthCookieTTL  = 10 * time.Minute
)

type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(domain string, secure bool, sameSite string) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, SameSite: parseSameSite(sameSite)}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (m *CookieManager) cookie(name, value, path string, httpOnly bool, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   m.Domain,
		HttpOnly: httpOnly,
		Secure:   m.Secure,
		SameSite: m.SameSite,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	} else {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

// SetSession writes the session cookie; its lifetime follows the token's expiry.
func (m *CookieManager) SetSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, m.cookie(SessionCookieName, token, "/", true, time.Until(expires)))
}

func (m *CookieManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(SessionCookieName, "", "/", true, 0))
}

// SetCSRF writes the double-submit token. It stays readable by scripts so
// clients can echo it in the X-CSRF-Token header.
func (m *CookieManager) SetCSRF(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, m.cookie(CSRFCookieName, token, "/", false, ttl))
}

func (m *CookieManager) SetOAuthFlow(w http.ResponseWriter, state, callbackURL string) {
	http.SetCookie(w, m.cookie(OAuthStateCookieName, state, oauthCookiePath, true, oauthCookieTTL))
	http.SetCookie(w, m.cookie(CallbackURLCookieName, callbackURL, oauthCookiePath, true, oauthCookieTTL))
}

func (m *CookieManager) ClearOAuthFlow(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(OAuthStateCookieName, "", oauthCookiePath, true, 0))
	http.SetCookie(w, m.cookie(CallbackURLCookieName, "", oauthCookiePath, true, 0))
}

func (m *CookieManager) ClearAll(w http.ResponseWriter) {
	m.ClearSession(w)
	http.SetCookie(w, m.cookie(CSRFCookieName, "", "/", false, 0))
	m.ClearOAuthFlow(w)
}

func GetCookie(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
