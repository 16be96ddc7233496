package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
)

// Messages carries the action contract over HTTP. Store failures are
// answered 200 with {success:false}; only an unreachable page side is 502.
func Messages(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messaging.Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid message: "+err.Error())
			return
		}

		out, err := d.Dispatcher.Handle(r.Context(), req)
		if err != nil {
			d.Logger.Warn("message channel failure",
				logger.String("action", req.Action),
				logger.Error(err))
			writeError(w, d.Logger, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, out)
	}
}
