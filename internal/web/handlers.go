package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/errors"
	"github.com/hpungsan/chronicle/internal/ops"
)

// Handlers contains HTTP route handlers for the journal viewer.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleLog handles GET /log, the commit listing page.
func (h *Handlers) HandleLog(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")

	defaultLimit := 20
	if h.cfg != nil && h.cfg.DefaultLogLimit > 0 {
		defaultLimit = h.cfg.DefaultLogLimit
	}
	input := ops.ListInput{
		Limit:  parseIntParam(r, "limit", defaultLimit),
		Offset: parseIntParam(r, "offset", 0),
		Kind:   kind,
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "log", LogPageData{
		PageData: PageData{
			Title:   "Log",
			Version: h.renderer.version,
			Nav:     "log",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Kind:       kind,
	})
}

// HandleDetail handles GET /log/{id}, the single commit view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("commit ID is required"))
		return
	}

	commit, err := ops.Show(h.db, ops.ShowInput{
		ID:     id,
		Ranked: parseBoolParam(r, "ranked"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   commit.Subject,
			Version: h.renderer.version,
			Nav:     "log",
		},
		Commit: commit,
	})
}

// HandleChangelog handles GET /changelog, the rendered changelog document.
func (h *Handlers) HandleChangelog(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Changelog(h.db, h.cfg, ops.ChangelogInput{
		Limit:  parseIntParam(r, "limit", 0),
		Format: ops.ChangelogHTML,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// Content comes from goldmark over our own generated markdown, so it is
	// safe to mark as trusted HTML.
	h.renderer.renderPage(w, "changelog", ChangelogPageData{
		PageData: PageData{
			Title:   "Changelog",
			Version: h.renderer.version,
			Nav:     "changelog",
		},
		RenderedHTML: template.HTML(result.Content),
		Count:        result.Count,
	})
}

// HandleInventory handles GET /inventory, change counts per kind.
func (h *Handlers) HandleInventory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Inventory(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "inventory", InventoryPageData{
		PageData: PageData{
			Title:   "Inventory",
			Version: h.renderer.version,
			Nav:     "inventory",
		},
		Inventory: result,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
