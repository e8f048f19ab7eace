package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/ops"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	return &Handlers{
		db:       database,
		cfg:      cfg,
		renderer: renderer,
	}
}

// seedCommit records one commit and returns its ID.
func seedCommit(t *testing.T, h *Handlers, specs ...ops.ChangeSpec) string {
	t.Helper()
	if len(specs) == 0 {
		specs = []ops.ChangeSpec{{Scope: "post", Action: "create", EntityID: "1", Title: "Hello World"}}
	}
	out, err := ops.Record(h.db, ops.RecordInput{Changes: specs})
	if err != nil {
		t.Fatalf("seed commit: %v", err)
	}
	return out.ID
}

// --- HandleLog ---

func TestHandleLog_Default(t *testing.T) {
	h := setupTest(t)
	seedCommit(t, h)

	req := httptest.NewRequest("GET", "/log", nil)
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Hello World") {
		t.Error("expected commit subject in response")
	}
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected full layout shell")
	}
}

func TestHandleLog_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/log", nil)
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No commits recorded yet") {
		t.Error("expected empty state message")
	}
}

func TestHandleLog_KindFilter(t *testing.T) {
	h := setupTest(t)
	seedCommit(t, h, ops.ChangeSpec{Scope: "theme", Action: "switch", EntityID: "dark", Title: "Dark"})
	seedCommit(t, h, ops.ChangeSpec{Scope: "user", Action: "create", EntityID: "alice"})

	req := httptest.NewRequest("GET", "/log?kind=theme", nil)
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Theme switched to") {
		t.Error("expected theme commit in filtered results")
	}
	if strings.Contains(body, "alice") {
		t.Error("did not expect user commit in filtered results")
	}
}

func TestHandleLog_UnknownKindRendersErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/log?kind=widget", nil)
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unknown kind") {
		t.Error("expected error message in page")
	}
}

func TestHandleLog_InvalidLimitFallsBack(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/log?limit=notanumber&offset=bad", nil)
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	// Should not error, falls back to defaults
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// --- HandleDetail ---

func TestHandleDetail(t *testing.T) {
	h := setupTest(t)
	id := seedCommit(t, h,
		ops.ChangeSpec{Scope: "option", Action: "update", EntityID: "blogname"},
		ops.ChangeSpec{Scope: "core", Action: "update", Version: "6.4"},
	)

	req := httptest.NewRequest("GET", "/log/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, id) {
		t.Error("expected commit ID in response")
	}
	if !strings.Contains(body, "Core updated to version 6.4") {
		t.Error("expected change description in response")
	}
	if !strings.Contains(body, "Change: core/update") {
		t.Error("expected raw stored message in response")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/log/01HXNOPE", nil)
	req.SetPathValue("id", "01HXNOPE")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_JSONErrorNegotiation(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/log/01HXNOPE", nil)
	req.SetPathValue("id", "01HXNOPE")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok || errObj["code"] != "NOT_FOUND" {
		t.Errorf("unexpected error payload: %v", payload)
	}
}

// --- HandleChangelog ---

func TestHandleChangelog(t *testing.T) {
	h := setupTest(t)
	seedCommit(t, h)

	req := httptest.NewRequest("GET", "/changelog", nil)
	rec := httptest.NewRecorder()
	h.HandleChangelog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2") {
		t.Error("expected rendered day headings")
	}
	if !strings.Contains(body, "Hello World") {
		t.Error("expected commit subject in changelog")
	}
}

// --- HandleInventory ---

func TestHandleInventory(t *testing.T) {
	h := setupTest(t)
	seedCommit(t, h)

	req := httptest.NewRequest("GET", "/inventory", nil)
	rec := httptest.NewRecorder()
	h.HandleInventory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "post") {
		t.Error("expected kind row in inventory")
	}
}

// --- Server routing ---

func TestServerRoutes(t *testing.T) {
	h := setupTest(t)
	srv := NewServer(h.db, h.cfg, "test", "127.0.0.1", 0)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/log" {
		t.Errorf("redirect location = %q, want /log", loc)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/log", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /log status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/static/style.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /static/style.css status = %d, want 200", rec.Code)
	}
}
