package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/model"
)

// Page routes the gate redirects between.
const (
	LoginPath   = "/login"
	LandingPath = "/book"
)

// SessionResolver looks up the session behind a cookie token. The
// second return value reports that the session expiry was refreshed
// and the cookie must be re-issued.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*model.Session, bool, error)
}

// GateConfig holds configuration for the access gate middleware.
type GateConfig struct {
	Logger       *slog.Logger
	Sessions     SessionResolver
	CookieSecure bool
}

// isProtectedPath reports whether the path requires authentication.
func isProtectedPath(path string) bool {
	return path == LandingPath ||
		strings.HasPrefix(path, LandingPath+"/") ||
		path == "/section" ||
		strings.HasPrefix(path, "/section/")
}

// isAuthPath reports whether the path is reserved for unauthenticated
// visitors (the login and register forms).
func isAuthPath(path string) bool {
	return path == LoginPath || path == "/register"
}

// Gate classifies every request path as protected, auth-only or
// neither, and decides one of three outcomes: pass through, redirect
// to the login form, or redirect to the authenticated landing page.
//
// It runs before any protected page renders. When the session lookup
// slides the expiry forward, the refreshed cookie is written onto the
// response before any redirect, so the browser's session stays valid.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)

			sess, refreshed, err := cfg.Sessions.ResolveSession(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				// Fail closed: treat the visitor as unauthenticated.
				sess = nil
			}

			if refreshed && sess != nil {
				auth.SetSessionCookie(w, token, sess.ExpiresAt, cfg.CookieSecure)
			}

			path := r.URL.Path

			if sess == nil && isProtectedPath(path) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if sess != nil && isAuthPath(path) {
				http.Redirect(w, r, LandingPath, http.StatusSeeOther)
				return
			}

			if sess != nil {
				user := &model.User{ID: sess.UserID, Email: sess.Email}
				r = r.WithContext(auth.ContextWithUser(r.Context(), user))
			}

			next.ServeHTTP(w, r)
		})
	}
}
