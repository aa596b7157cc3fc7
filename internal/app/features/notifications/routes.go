// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the notifications subrouter.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireSignedIn)

	r.Get("/", h.ServeMine)
	r.Put("/{id}/read", h.HandleMarkRead)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
