package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/db"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, string) {
	t.Helper()

	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg, baseDir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func changeArg(scope, action, entityID string) map[string]any {
	return map[string]any{"scope": scope, "action": action, "entity_id": entityID}
}

// recordOne stores a single-change commit and returns its ID.
func recordOne(t *testing.T, h *Handlers) string {
	t.Helper()

	req := makeRequest(map[string]any{
		"changes": []any{changeArg("post", "create", "42")},
	})
	result, err := h.HandleRecord(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("setup record failed: %v", extractErrorMessage(result))
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("failed to unmarshal record result: %v", err)
	}
	return out["id"].(string)
}

func TestHandleRecord(t *testing.T) {
	database, cfg, baseDir := testSetup(t)
	h := NewHandlers(database, cfg, baseDir)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "record single change",
			args: map[string]any{
				"changes": []any{changeArg("option", "update", "blogname")},
			},
			wantError: false,
		},
		{
			name: "record bundle with version",
			args: map[string]any{
				"changes": []any{
					changeArg("theme", "switch", "twentyfifteen"),
					changeArg("option", "update", "WPLANG"),
				},
				"version": "4.1",
			},
			wantError: false,
		},
		{
			name:      "record without changes",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "record unknown scope",
			args: map[string]any{
				"changes": []any{changeArg("widget", "update", "1")},
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "record entity change without entity_id",
			args: map[string]any{
				"changes": []any{map[string]any{"scope": "post", "action": "create"}},
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleRecord(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleShow(t *testing.T) {
	database, cfg, baseDir := testSetup(t)
	h := NewHandlers(database, cfg, baseDir)
	ctx := context.Background()

	id := recordOne(t, h)

	result, err := h.HandleShow(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("show failed: %v", extractErrorMessage(result))
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("failed to unmarshal show result: %v", err)
	}
	if out["id"] != id {
		t.Errorf("id = %v, want %s", out["id"], id)
	}

	missing, _ := h.HandleShow(ctx, makeRequest(map[string]any{"id": "01HXNOPE"}))
	assertErrorCode(t, missing, "NOT_FOUND")
}

func TestHandleLog(t *testing.T) {
	database, cfg, baseDir := testSetup(t)
	h := NewHandlers(database, cfg, baseDir)
	ctx := context.Background()

	recordOne(t, h)
	recordOne(t, h)

	result, err := h.HandleLog(ctx, makeRequest(map[string]any{"limit": 1}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("log failed: %v", extractErrorMessage(result))
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("failed to unmarshal log result: %v", err)
	}
	items := out["items"].([]any)
	if len(items) != 1 {
		t.Errorf("items len = %d, want 1", len(items))
	}

	bad, _ := h.HandleLog(ctx, makeRequest(map[string]any{"kind": "widget"}))
	assertErrorCode(t, bad, "INVALID_REQUEST")
}

func TestHandleInventoryAndChangelog(t *testing.T) {
	database, cfg, baseDir := testSetup(t)
	h := NewHandlers(database, cfg, baseDir)
	ctx := context.Background()

	recordOne(t, h)

	inv, err := h.HandleInventory(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if inv.IsError {
		t.Fatalf("inventory failed: %v", extractErrorMessage(inv))
	}

	log, err := h.HandleChangelog(ctx, makeRequest(map[string]any{"format": "html"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if log.IsError {
		t.Fatalf("changelog failed: %v", extractErrorMessage(log))
	}

	bad, _ := h.HandleChangelog(ctx, makeRequest(map[string]any{"format": "pdf"}))
	assertErrorCode(t, bad, "INVALID_REQUEST")
}

func TestHandleExportImportPurge(t *testing.T) {
	database, cfg, baseDir := testSetup(t)
	h := NewHandlers(database, cfg, baseDir)
	ctx := context.Background()

	recordOne(t, h)

	exported, err := h.HandleExport(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exported.IsError {
		t.Fatalf("export failed: %v", extractErrorMessage(exported))
	}
	var exportOut map[string]any
	if err := json.Unmarshal([]byte(exported.Content[0].(mcp.TextContent).Text), &exportOut); err != nil {
		t.Fatalf("failed to unmarshal export result: %v", err)
	}
	path := exportOut["path"].(string)

	// Re-import over existing data in skip mode.
	imported, _ := h.HandleImport(ctx, makeRequest(map[string]any{"path": path, "mode": "skip"}))
	if imported.IsError {
		t.Fatalf("import failed: %v", extractErrorMessage(imported))
	}
	var importOut map[string]any
	if err := json.Unmarshal([]byte(imported.Content[0].(mcp.TextContent).Text), &importOut); err != nil {
		t.Fatalf("failed to unmarshal import result: %v", err)
	}
	if importOut["skipped"].(float64) != 1 {
		t.Errorf("skipped = %v, want 1", importOut["skipped"])
	}

	purged, _ := h.HandlePurge(ctx, makeRequest(map[string]any{"older_than_days": 30}))
	if purged.IsError {
		t.Fatalf("purge failed: %v", extractErrorMessage(purged))
	}

	badPurge, _ := h.HandlePurge(ctx, makeRequest(map[string]any{"older_than_days": 0}))
	assertErrorCode(t, badPurge, "INVALID_REQUEST")
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"journal_record", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("names len = %d, want %d", len(names), len(toolRegistry))
	}
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected error result, got success")
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}
	if code != expectedCode {
		t.Errorf("error code = %s, want %s", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
