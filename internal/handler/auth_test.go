package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/model"
	"github.com/marigunko/my-recipe-book/internal/service"
)

// stubAuth is a scripted Authenticator.
type stubAuth struct {
	loginErr    error
	registerErr error
	sessionErr  error

	endedToken string
}

func (s *stubAuth) Register(ctx context.Context, email, password string) (*model.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &model.User{ID: "user-1", Email: email}, nil
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*model.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &model.User{ID: "user-1", Email: email}, nil
}

func (s *stubAuth) StartSession(ctx context.Context, user *model.User) (string, *model.Session, error) {
	if s.sessionErr != nil {
		return "", nil, s.sessionErr
	}
	sess := &model.Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return "test-token", sess, nil
}

func (s *stubAuth) EndSession(ctx context.Context, token string) error {
	s.endedToken = token
	return nil
}

func authRouter(t *testing.T, svc Authenticator) http.Handler {
	t.Helper()

	h := NewAuthHandler(testBase(t), svc, false)

	r := chi.NewRouter()
	r.Get("/login", h.ShowLogin)
	r.Post("/login", h.SubmitLogin)
	r.Get("/register", h.ShowRegister)
	r.Post("/register", h.SubmitRegister)
	r.Post("/logout", h.Logout)
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_ShowLogin(t *testing.T) {
	router := authRouter(t, &stubAuth{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/login"`) {
		t.Error("expected the login form action")
	}
	if !strings.Contains(body, "/register") {
		t.Error("expected a link to the register page")
	}
}

func TestAuthHandler_SubmitLogin_Success(t *testing.T) {
	router := authRouter(t, &stubAuth{})

	rec := postForm(t, router, "/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"secret1"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/book" {
		t.Errorf("expected redirect to /book, got %s", loc)
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if cookie.Value != "test-token" {
		t.Errorf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestAuthHandler_SubmitLogin_BadCredentialsVerbatim(t *testing.T) {
	router := authRouter(t, &stubAuth{loginErr: service.ErrInvalidCredentials})

	rec := postForm(t, router, "/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"wrong-pass"},
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, service.ErrInvalidCredentials.Error()) {
		t.Error("expected the auth error verbatim near the form")
	}
	// Email is preserved so the user does not retype it.
	if !strings.Contains(body, "user@example.com") {
		t.Error("expected the submitted email to be preserved")
	}
	if cookie := sessionCookie(t, rec); cookie != nil {
		t.Error("no cookie may be set on a failed login")
	}
}

func TestAuthHandler_SubmitRegister_FieldErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid email", service.ErrEmailInvalid},
		{"short password", service.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(t, &stubAuth{registerErr: tt.err})

			rec := postForm(t, router, "/register", url.Values{
				"email":    {"bad"},
				"password": {"x"},
			})

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.err.Error()) {
				t.Errorf("expected %q next to its field", tt.err)
			}
		})
	}
}

func TestAuthHandler_SubmitRegister_SignsInDirectly(t *testing.T) {
	router := authRouter(t, &stubAuth{})

	rec := postForm(t, router, "/register", url.Values{
		"email":    {"new@example.com"},
		"password": {"secret1"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/book" {
		t.Errorf("expected redirect to /book, got %s", loc)
	}
	if sessionCookie(t, rec) == nil {
		t.Error("registration must establish a session")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuth{}
	router := authRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok-123"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %s", loc)
	}
	if svc.endedToken != "tok-123" {
		t.Errorf("expected the session token to be destroyed, got %q", svc.endedToken)
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("expected the cookie to be cleared")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Error("expected an expired, empty cookie")
	}
}
