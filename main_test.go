package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/handlers"
	"github.com/johnwmail/clipshare/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create filesystem store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Username:   "admin",
		Password:   "hunter2",
		SessionTTL: time.Hour,
	}
	return setupRouter(store, cfg)
}

func loginCookie(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {"admin"}, "password": {"hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == handlers.SessionCookie {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestIndexRedirectsWithoutSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestAPIUnauthorizedWithoutSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/shares", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected JSON error, got content type %q", ct)
	}
}

func TestStaleCookieRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/shares", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: "not-a-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// TestShareLifecycle drives the full flow through the router: login, save
// clipboard text, mint a view-limited link, consume it anonymously until it
// locks out.
func TestShareLifecycle(t *testing.T) {
	router := newTestRouter(t)
	cookie := loginCookie(t, router)

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if method != http.MethodGet {
			req.Header.Set("Content-Type", "application/json")
		}
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// Save clipboard content (raw text body)
	req := httptest.NewRequest(http.MethodPost, "/save", strings.NewReader("lifecycle"))
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Create a one-view share with a known id
	if w := authed(http.MethodPost, "/share", `{"customId":"once","maxViews":1}`); w.Code != http.StatusOK {
		t.Fatalf("share: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Anonymous consumption, no cookie
	public := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/s/once", nil)
		req.Header.Set("User-Agent", "curl/8.0")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := public(); w.Code != http.StatusOK || w.Body.String() != "lifecycle" {
		t.Fatalf("first view: expected content, got %d %q", w.Code, w.Body.String())
	}
	if w := public(); w.Code != http.StatusForbidden {
		t.Fatalf("second view: expected 403, got %d", w.Code)
	}

	// The exhausted link is still listed for the administrator
	if w := authed(http.MethodGet, "/api/shares", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "once") {
		t.Fatalf("list: expected exhausted share in listing, got %d %s", w.Code, w.Body.String())
	}

	// Re-arming with a new limit resets the counter and brings it back
	if w := authed(http.MethodPut, "/api/shares/once", `{"maxViews":2}`); w.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := public(); w.Code != http.StatusOK {
		t.Fatalf("view after re-arm: expected 200, got %d", w.Code)
	}

	// Delete is terminal
	if w := authed(http.MethodDelete, "/api/shares/once", ""); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if w := public(); w.Code != http.StatusNotFound {
		t.Fatalf("view after delete: expected 404, got %d", w.Code)
	}
}

func TestNoRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/definitely/not/here", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
