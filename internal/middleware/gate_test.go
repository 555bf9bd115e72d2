package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/model"
)

// fakeResolver resolves any non-empty token to a fixed session.
type fakeResolver struct {
	sess      *model.Session
	refreshed bool
}

func (f *fakeResolver) ResolveSession(ctx context.Context, token string) (*model.Session, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	return f.sess, f.refreshed, nil
}

func testSession() *model.Session {
	now := time.Now().UTC()
	return &model.Session{
		UserID:    "user-1",
		Email:     "user@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func gateRequest(t *testing.T, cfg GateConfig, path string, withCookie bool) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()

	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "token"})
	}
	rec := httptest.NewRecorder()

	Gate(cfg)(next).ServeHTTP(rec, req)
	return rec, seen
}

func testGateConfig(resolver SessionResolver) GateConfig {
	return GateConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sessions: resolver,
	}
}

func TestGate_ProtectedWithoutSession(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{})

	for _, path := range []string{"/book", "/section/abc", "/section/abc/new-recipe"} {
		rec, _ := gateRequest(t, cfg, path, false)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("%s: expected redirect to /login, got %s", path, loc)
		}
	}
}

func TestGate_AuthPageWithSession(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{sess: testSession()})

	for _, path := range []string{"/login", "/register"} {
		rec, _ := gateRequest(t, cfg, path, true)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/book" {
			t.Errorf("%s: expected redirect to /book, got %s", path, loc)
		}
	}
}

func TestGate_ProtectedWithSession(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{sess: testSession()})

	rec, user := gateRequest(t, cfg, "/book", true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user == nil {
		t.Fatal("expected user in request context")
	}
	if user.ID != "user-1" {
		t.Errorf("expected user ID user-1, got %s", user.ID)
	}
}

func TestGate_AuthPageWithoutSession(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{})

	rec, _ := gateRequest(t, cfg, "/login", false)

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through 200, got %d", rec.Code)
	}
}

func TestGate_NeitherPathPassesThrough(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{})

	rec, _ := gateRequest(t, cfg, "/healthz", false)

	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through 200, got %d", rec.Code)
	}
}

func TestGate_RefreshedSessionReissuesCookie(t *testing.T) {
	t.Parallel()

	cfg := testGateConfig(&fakeResolver{sess: testSession(), refreshed: true})

	rec, _ := gateRequest(t, cfg, "/book", true)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value == "token" {
			found = true
		}
	}
	if !found {
		t.Error("expected refreshed session cookie on the response")
	}
}

func TestPathClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		protected bool
		authOnly  bool
	}{
		{"/book", true, false},
		{"/book/sections", true, false},
		{"/section/abc", true, false},
		{"/section/abc/new-recipe", true, false},
		{"/login", false, true},
		{"/register", false, true},
		{"/", false, false},
		{"/healthz", false, false},
		{"/bookkeeping", false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := isProtectedPath(tt.path); got != tt.protected {
				t.Errorf("isProtectedPath(%q) = %v, want %v", tt.path, got, tt.protected)
			}
			if got := isAuthPath(tt.path); got != tt.authOnly {
				t.Errorf("isAuthPath(%q) = %v, want %v", tt.path, got, tt.authOnly)
			}
		})
	}
}
