package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
	"github.com/MrSnakeDoc/timemark/internal/store"
)

type bookmarkListResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
	Total     int               `json:"total"`
}

type createdResponse struct {
	ID string `json:"id"`
}

// ListBookmarks returns bookmarks newest first; ?limit=N trims the page.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, d.Logger, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		list, err := d.Bookmarks.List(r.Context())
		if err != nil {
			d.Logger.Error("list bookmarks failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to load bookmarks")
			return
		}

		resp := bookmarkListResponse{Bookmarks: list, Total: len(list)}
		if limit > 0 && limit < len(list) {
			resp.Bookmarks = list[:limit]
		}
		if resp.Bookmarks == nil {
			resp.Bookmarks = []domain.Bookmark{}
		}
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c domain.Candidate
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&c); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid bookmark: "+err.Error())
			return
		}

		id, err := d.Bookmarks.Save(r.Context(), c)
		switch {
		case err == nil:
			writeJSON(w, d.Logger, http.StatusCreated, createdResponse{ID: id})
		case errors.Is(err, domain.ErrInvalidCandidate):
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
		default:
			d.Logger.Error("save bookmark failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to save bookmark")
		}
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Bookmarks.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case err == nil:
			writeJSON(w, d.Logger, http.StatusOK, b)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, d.Logger, http.StatusNotFound, "bookmark not found")
		default:
			d.Logger.Error("get bookmark failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to load bookmark")
		}
	}
}

// DeleteBookmark answers 204 whether or not the bookmark existed.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bookmarks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			d.Logger.Error("delete bookmark failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to delete bookmark")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// OpenBookmark replays a bookmark in a new browser tab.
func OpenBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := d.Bookmarks.Get(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, d.Logger, http.StatusNotFound, "bookmark not found")
				return
			}
			d.Logger.Error("get bookmark failed", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, "failed to load bookmark")
			return
		}

		out, err := d.Dispatcher.Handle(r.Context(), messaging.Request{
			Action: messaging.ActionOpenBookmark,
			ID:     id,
		})
		if err != nil {
			writeError(w, d.Logger, http.StatusBadGateway, err.Error())
			return
		}
		resp, _ := out.(messaging.Response)
		if !resp.Success {
			writeError(w, d.Logger, http.StatusBadGateway, resp.Error)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, resp.Tab)
	}
}
