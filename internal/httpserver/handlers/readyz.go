package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz is ready once the bookmark store answers. The browser is optional:
// without it the popup shows a disconnected state but bookmarks still work.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Bookmarks.Ping(ctx); err != nil {
			writeJSON(w, d.Logger, http.StatusServiceUnavailable, readyzResponse{Error: err.Error()})
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, readyzResponse{Ready: true})
	}
}
