package handlers

import (
	"bytes"
	"net/http"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
	"github.com/MrSnakeDoc/timemark/internal/ui"
)

// Popup renders a one-shot popup view as HTML.
func Popup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := messaging.NewClient(messaging.NewLocal(d.Dispatcher))
		c := coordinator.New(backend, coordinator.Options{}, d.Logger)
		_ = c.Refresh(r.Context())
		c.LoadBookmarks(r.Context())

		var buf bytes.Buffer
		if err := ui.RenderHTML(&buf, c.View()); err != nil {
			d.Logger.Error("render popup failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to render popup")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
