package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/model"
	"github.com/marigunko/my-recipe-book/internal/service"
)

// Authenticator is the slice of AuthService the auth pages need.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	StartSession(ctx context.Context, user *model.User) (string, *model.Session, error)
	EndSession(ctx context.Context, token string) error
}

// AuthHandler serves the login and register forms and the logout action.
type AuthHandler struct {
	*Handler
	svc          Authenticator
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, svc Authenticator, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		Handler:      base,
		svc:          svc,
		cookieSecure: cookieSecure,
	}
}

// authPage is the template data for the login/register form.
type authPage struct {
	Title         string
	Action        string
	Email         string
	EmailError    string
	PasswordError string
	FormError     string
}

func loginPage() authPage {
	return authPage{Title: "Login", Action: "/login"}
}

func registerPage() authPage {
	return authPage{Title: "Register", Action: "/register"}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "auth", loginPage())
}

// ShowRegister handles GET /register.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "auth", registerPage())
}

// SubmitLogin handles POST /login.
func (h *AuthHandler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, loginPage(), h.svc.Login)
}

// SubmitRegister handles POST /register.
func (h *AuthHandler) SubmitRegister(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, registerPage(), h.svc.Register)
}

// submit runs the shared form flow for login and register: validate,
// authenticate, start a session, set the cookie and redirect to the
// book. Field errors re-render the form; auth errors are shown
// verbatim as a single message near the form.
func (h *AuthHandler) submit(
	w http.ResponseWriter,
	r *http.Request,
	page authPage,
	authenticate func(ctx context.Context, email, password string) (*model.User, error),
) {
	if err := r.ParseForm(); err != nil {
		page.FormError = "invalid form submission"
		h.render(w, http.StatusBadRequest, "auth", page)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	page.Email = email

	user, err := authenticate(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailInvalid):
			page.EmailError = err.Error()
		case errors.Is(err, service.ErrPasswordTooShort):
			page.PasswordError = err.Error()
		default:
			// Credential and remote errors surface verbatim.
			page.FormError = err.Error()
		}
		h.render(w, http.StatusUnprocessableEntity, "auth", page)
		return
	}

	token, sess, err := h.svc.StartSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to start session",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		page.FormError = "could not sign you in, please try again"
		h.render(w, http.StatusInternalServerError, "auth", page)
		return
	}

	h.logger.Info("session_started", "user_id", user.ID)

	auth.SetSessionCookie(w, token, sess.ExpiresAt, h.cookieSecure)
	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// Logout handles POST /logout. The session is destroyed server-side
// and the cookie cleared regardless of its validity.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if err := h.svc.EndSession(r.Context(), token); err != nil {
		h.logger.Error("failed to end session", slog.String("error", err.Error()))
	}

	auth.ClearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
