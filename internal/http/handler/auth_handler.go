package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/security"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

const (
	csrfTokenTTL = 24 * time.Hour

	signInErrorCallback     = "OAuthCallback"
	signInErrorAccessDenied = "AccessDenied"
	signInErrorConfig       = "Configuration"
)

type AuthHandler struct {
	identity  service.IdentityServiceInterface
	cookieMgr *security.CookieManager
	stateKey  string
	baseURL   string
	landing   string
}

func NewAuthHandler(identity service.IdentityServiceInterface, cookieMgr *security.CookieManager, stateKey, baseURL, landing string) *AuthHandler {
	return &AuthHandler{identity: identity, cookieMgr: cookieMgr, stateKey: stateKey, baseURL: baseURL, landing: landing}
}

// GoogleSignIn starts the authorization-code flow and remembers where to
// land afterwards.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "signin", status, time.Since(start))
	}()

	nonce, err := security.RandomString(24)
	if err != nil {
		status = "failure"
		h.signInFailed(w, r, signInErrorConfig, "state_generation")
		return
	}
	state := security.SignState(nonce, h.stateKey)
	callback := security.NormalizeRedirect(r.URL.Query().Get("callbackUrl"), h.baseURL, h.landing)
	h.cookieMgr.SetOAuthFlow(w, state, callback)
	observability.Audit(r, observability.AuditInput{
		EventName:  "auth.signin.redirect",
		TargetType: "provider",
		TargetID:   h.identity.ProviderName(),
		Action:     "signin",
		Outcome:    "success",
	})
	http.Redirect(w, r, h.identity.LoginURL(state), http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "callback", status, time.Since(start))
	}()

	q := r.URL.Query()
	if q.Get("error") != "" {
		status = "failure"
		h.cookieMgr.ClearOAuthFlow(w)
		h.signInFailed(w, r, signInErrorAccessDenied, "provider_denied")
		return
	}
	queryState, code := q.Get("state"), q.Get("code")
	if queryState == "" || code == "" {
		status = "failure"
		h.signInFailed(w, r, signInErrorCallback, "missing_code_or_state")
		return
	}
	cookieState, _ := security.GetCookie(r, security.OAuthStateCookieName)
	if _, err := security.VerifySignedState(queryState, h.stateKey); err != nil || !security.ConstantTimeEqual(queryState, cookieState) {
		status = "failure"
		h.cookieMgr.ClearOAuthFlow(w)
		h.signInFailed(w, r, signInErrorCallback, "invalid_state")
		return
	}
	callback, _ := security.GetCookie(r, security.CallbackURLCookieName)
	h.cookieMgr.ClearOAuthFlow(w)

	result, err := h.identity.CompleteGoogleSignIn(r.Context(), code)
	if err != nil {
		status = "failure"
		reason := "provider_error"
		if errors.Is(err, service.ErrSignInRejected) {
			reason = "rejected"
		}
		h.signInFailed(w, r, signInErrorAccessDenied, reason)
		return
	}
	h.cookieMgr.SetSession(w, result.Token, result.Expires)
	observability.Audit(r, observability.AuditInput{
		EventName:   "auth.signin.success",
		ActorUserID: result.User.ID,
		TargetType:  "user",
		TargetID:    result.User.ID,
		Action:      "signin",
		Outcome:     "success",
	})
	http.Redirect(w, r, security.NormalizeRedirect(callback, h.baseURL, h.landing), http.StatusFound)
}

func (h *AuthHandler) signInFailed(w http.ResponseWriter, r *http.Request, code, reason string) {
	observability.Audit(r, observability.AuditInput{
		EventName:  "auth.signin.failed",
		TargetType: "provider",
		TargetID:   h.identity.ProviderName(),
		Action:     "signin",
		Outcome:    "failure",
		Reason:     reason,
	})
	http.Redirect(w, r, middleware.SignInPath+"?"+url.Values{"error": {code}}.Encode(), http.StatusFound)
}

// Session returns the current session and slides its expiry forward. With no
// session the body is an empty object.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusOK, map[string]any{})
		return
	}
	token, expires, err := h.identity.IssueSession(s.Claims)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", i18n.For(r).Sprintf(i18n.MsgInternal), nil)
		return
	}
	h.cookieMgr.SetSession(w, token, expires)
	response.JSON(w, r, http.StatusOK, h.identity.SessionView(s.Claims, expires))
}

func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	token, err := security.GetCookie(r, security.CSRFCookieName)
	if err != nil || token == "" {
		token, err = security.RandomString(32)
		if err != nil {
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", i18n.For(r).Sprintf(i18n.MsgInternal), nil)
			return
		}
		h.cookieMgr.SetCSRF(w, token, csrfTokenTTL)
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		actor = s.Claims.UserID
	}
	h.cookieMgr.ClearSession(w)
	observability.RecordAuthSignOut(r.Context(), "success")
	observability.Audit(r, observability.AuditInput{
		EventName:   "auth.signout",
		ActorUserID: actor,
		TargetType:  "session",
		TargetID:    actor,
		Action:      "signout",
		Outcome:     "success",
	})
	target := security.NormalizeRedirect(r.FormValue("callbackUrl"), h.baseURL, "/")
	response.JSON(w, r, http.StatusOK, map[string]string{"url": target})
}

type providerDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

func (h *AuthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	id := h.identity.ProviderName()
	response.JSON(w, r, http.StatusOK, map[string]providerDescriptor{
		id: {
			ID:          id,
			Name:        "Google",
			Type:        "oidc",
			SignInURL:   h.baseURL + "/api/auth/signin/" + id,
			CallbackURL: h.baseURL + "/api/auth/callback/" + id,
		},
	})
}
