package handlers

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 10 * time.Minute
	oauthCookiePath  = "/api/auth/google"
)

// GET /api/auth/google/login
// GoogleLogin godoc
// @Summary Start "Sign in with Google" for an existing account
// @Tags Auth
// @Param redirect query string false "Frontend path to return to"
// @Success 307
// @Router /api/auth/google/login [get]
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) error {
	state, err := encodeState(oauthState{
		Redirect: safeRedirectPath(r.URL.Query().Get("redirect")),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     oauthCookiePath,
		MaxAge:   int(oauthStateMaxAge.Seconds()),
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
	return nil
}

// GET /api/auth/google/callback
// GoogleCallback godoc
// @Summary Finish Google sign-in and hand the token to the frontend
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Router /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) error {
	state := r.FormValue("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return ValidationError("Invalid OAuth state")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     oauthCookiePath,
		MaxAge:   -1,
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := decodeState(state)
	if err != nil {
		return ValidationError("Invalid OAuth state")
	}
	redirectPath := safeRedirectPath(decoded.Redirect)

	if errParam := r.FormValue("error"); errParam != "" {
		h.redirectWithError(w, r, "access_denied")
		return nil
	}

	profile, err := h.google.FetchProfile(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.WithError(err).Warn("google sign-in failed")
		h.redirectWithError(w, r, "google_failed")
		return nil
	}
	if !profile.VerifiedEmail {
		h.redirectWithError(w, r, "email_not_verified")
		return nil
	}

	// Signup needs a referral id, so Google can only sign in existing accounts.
	user, err := h.store.FindUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(profile.Email)))
	if err != nil {
		return err
	}
	if user == nil {
		h.redirectWithError(w, r, "user_not_found")
		return nil
	}

	token, err := h.tokens.Issue(user.UserID)
	if err != nil {
		return err
	}

	// The fragment keeps the token out of server logs and Referer headers.
	target := h.frontendURL + redirectPath + "#token=" + url.QueryEscape(token)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	return nil
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.frontendURL+"/?error="+url.QueryEscape(code), http.StatusTemporaryRedirect)
}

// safeRedirectPath only allows paths on the frontend's own origin.
func safeRedirectPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "/"
	}
	return p
}
