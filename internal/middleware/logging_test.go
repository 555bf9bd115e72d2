package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marigunko/my-recipe-book/internal/auth"
)

func serveLogged(t *testing.T, status int, mutate func(*http.Request)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})))

	req := httptest.NewRequest(http.MethodGet, "/book", nil)
	if mutate != nil {
		mutate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_RequestLine(t *testing.T) {
	entry := serveLogged(t, http.StatusOK, nil)

	if entry["method"] != "GET" || entry["path"] != "/book" {
		t.Errorf("unexpected method/path: %v", entry)
	}
	if entry["status_code"] != float64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", entry["status_code"])
	}
	if entry["request_id"] == "" {
		t.Error("expected a request id in the log line")
	}
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusSeeOther, "INFO"},
		{http.StatusUnprocessableEntity, "WARN"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusBadGateway, "ERROR"},
	}

	for _, test := range tests {
		entry := serveLogged(t, test.status, nil)
		if entry["level"] != test.level {
			t.Errorf("status %d: expected level %s, got %v", test.status, test.level, entry["level"])
		}
	}
}

func TestLogger_DoesNotLogSessionToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	const token = "secret-session-token-value"
	req := httptest.NewRequest(http.MethodGet, "/book", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(buf.String(), token) {
		t.Error("the session token must never reach the logs")
	}
}

func TestLogger_HonorsProxyRequestID(t *testing.T) {
	entry := serveLogged(t, http.StatusOK, func(r *http.Request) {
		r.Header.Set(RequestIDHeader, "upstream-id-7")
	})

	if entry["request_id"] != "upstream-id-7" {
		t.Errorf("expected the proxy-assigned id, got %v", entry["request_id"])
	}
}

func TestRecoverer_TurnsPanicInto500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/book", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Error("expected the panic logged")
	}
}
