package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/probe"
)

type mediaResponse struct {
	Supported bool                  `json:"supported"`
	Tab       *probe.Tab            `json:"tab,omitempty"`
	Media     *domain.MediaSnapshot `json:"media"`
}

// CurrentMedia reports the active tab and what it is playing.
func CurrentMedia(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, tab, err := d.Media.ActiveMedia(r.Context())
		switch {
		case err == nil:
			writeJSON(w, d.Logger, http.StatusOK, mediaResponse{Supported: true, Tab: &tab, Media: snap})
		case errors.Is(err, probe.ErrUnsupportedPage):
			writeJSON(w, d.Logger, http.StatusOK, mediaResponse{Tab: &tab})
		case errors.Is(err, probe.ErrNoPage):
			writeJSON(w, d.Logger, http.StatusOK, mediaResponse{})
		default:
			writeError(w, d.Logger, http.StatusBadGateway, err.Error())
		}
	}
}
