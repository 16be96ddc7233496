package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"store":   checkStore(ctx, d),
			"browser": checkBrowser(ctx, d),
		}
		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode: store down is critical (nothing can be saved); browser
// down is degraded (bookmarks can still be listed and deleted).
func determineMode(components map[string]componentStatus) string {
	if s, ok := components["store"]; ok && !s.OK {
		return "critical"
	}
	if b, ok := components["browser"]; ok && !b.OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Bookmarks.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreKind, Impact: "bookmarks-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.StoreKind}
}

func checkBrowser(ctx context.Context, d deps.Deps) componentStatus {
	if d.Browser == nil {
		return componentStatus{OK: false, Impact: "capture-disabled", Error: "not attached"}
	}
	if err := d.Browser.Ping(ctx); err != nil {
		return componentStatus{OK: false, Impact: "capture-disabled", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "cdp"}
}
