package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/session"
	"io"
	"net/http"
	"time"
)

const stateCookie = "oidc_state"

// Identifier runs the provider side of a login.
type Identifier interface {
	LoginURL(state string) string
	Identify(ctx context.Context, code string) (*auth.Identity, error)
}

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth    Identifier
	session session.Manager
	log     logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a Identifier, sm session.Manager, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, session: sm, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randString(16)
	if err != nil {
		h.log.Error(err, "failed to generate login state")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusFound)
}

// handleCallback is the redirect URL for the OIDC provider. On success the
// verified subject is stored in a fresh session.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, "state cookie not found", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != cookie.Value {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth/", MaxAge: -1})

	id, err := h.auth.Identify(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.log.Warn("login failed: " + err.Error())
		http.Error(w, "Login failed", http.StatusUnauthorized)
		return
	}

	// Prevent session fixation across the privilege change.
	if err := h.session.RenewToken(r.Context()); err != nil {
		h.log.Error(err, "failed to renew session token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.session.Put(r.Context(), middleware.SessionSubjectKey, id.Subject)
	h.log.With(map[string]interface{}{"subject": id.Subject, "email": id.Email}).Info("user logged in")

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout clears the session and sends the user home.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Destroy(r.Context()); err != nil {
		h.log.Error(err, "failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
