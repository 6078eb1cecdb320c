package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/models"
	"github.com/johnwmail/clipshare/services"
	"github.com/johnwmail/clipshare/storage"
	"github.com/johnwmail/clipshare/utils"
)

func newPublicRouter(t *testing.T) (*gin.Engine, *services.ShareService, storage.KVStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create filesystem store: %v", err)
	}
	shares := services.NewShareService(store)
	handler := NewPublicHandler(shares, &config.Config{})

	router := gin.New()
	router.LoadHTMLGlob("../static/*.html")
	router.GET("/s/:id", handler.View)
	router.POST("/s/:id", handler.Unlock)
	return router, shares, store
}

func createShare(t *testing.T, shares *services.ShareService, store storage.KVStore, content string, req services.CreateShareRequest) *services.ShareEntry {
	t.Helper()
	if err := store.Put(utils.ClipboardKey, content); err != nil {
		t.Fatalf("failed to seed clipboard: %v", err)
	}
	entry, err := shares.Create("http://localhost", req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return entry
}

// cliGet issues a GET as a CLI client so error paths answer JSON instead of
// rendering templates.
func cliGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "curl/8.0")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestViewDeliversContent(t *testing.T) {
	router, shares, store := newPublicRouter(t)
	entry := createShare(t, shares, store, "hello world", services.CreateShareRequest{})

	w := cliGet(router, "/s/"+entry.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "hello world" {
		t.Errorf("expected raw content body, got %q", w.Body.String())
	}
}

func TestViewNotFound(t *testing.T) {
	router, _, _ := newPublicRouter(t)

	w := cliGet(router, "/s/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestViewExhaustedReturns403(t *testing.T) {
	router, shares, store := newPublicRouter(t)
	maxViews := 1
	entry := createShare(t, shares, store, "x", services.CreateShareRequest{MaxViews: &maxViews})

	if w := cliGet(router, "/s/"+entry.ID); w.Code != http.StatusOK {
		t.Fatalf("first view: expected 200, got %d", w.Code)
	}
	if w := cliGet(router, "/s/"+entry.ID); w.Code != http.StatusForbidden {
		t.Fatalf("second view: expected 403, got %d", w.Code)
	}
}

func TestViewExpiredReturns403(t *testing.T) {
	router, _, store := newPublicRouter(t)

	past := time.Now().Add(-time.Hour)
	raw, err := models.EncodeShare(&models.Share{ID: "stale", Content: "x", ExpireAt: &past, CreatedAt: past})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := store.Put("stale", raw); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}

	w := cliGet(router, "/s/stale")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPasswordFlowCLI(t *testing.T) {
	router, shares, store := newPublicRouter(t)
	entry := createShare(t, shares, store, "secret", services.CreateShareRequest{Password: "p1"})

	// No password: 401 for CLI clients
	if w := cliGet(router, "/s/"+entry.ID); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without password, got %d", w.Code)
	}

	// Wrong password via form POST
	w := postForm(router, "/s/"+entry.ID, url.Values{"password": {"nope"}}, true)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	// Correct password
	w = postForm(router, "/s/"+entry.ID, url.Values{"password": {"p1"}}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with password, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "secret" {
		t.Errorf("expected content, got %q", w.Body.String())
	}
}

func TestPasswordPromptForBrowsers(t *testing.T) {
	router, shares, store := newPublicRouter(t)
	entry := createShare(t, shares, store, "secret", services.CreateShareRequest{Password: "p1"})

	req := httptest.NewRequest(http.MethodGet, "/s/"+entry.ID, nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected prompt page, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "password") {
		t.Errorf("expected a password form, got %q", w.Body.String())
	}
}

func TestViewEscapedID(t *testing.T) {
	router, shares, store := newPublicRouter(t)
	entry := createShare(t, shares, store, "spaced", services.CreateShareRequest{CustomID: "my note"})

	w := cliGet(router, "/s/"+url.PathEscape(entry.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for escaped id, got %d", w.Code)
	}
	if w.Body.String() != "spaced" {
		t.Errorf("expected content, got %q", w.Body.String())
	}
}

func postForm(router *gin.Engine, path string, form url.Values, cli bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cli {
		req.Header.Set("User-Agent", "curl/8.0")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
