package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/timemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/timemark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/timemark/internal/messaging"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Post(messaging.MessagesPath, handlers.Messages(d))
	r.Get("/api/media/current", handlers.CurrentMedia(d))
	r.Get("/popup", handlers.Popup(d))

	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Post("/{id}/open", handlers.OpenBookmark(d))
	})
}
