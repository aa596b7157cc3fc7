// internal/app/features/listings/routes.go
package listings

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the listings subrouter. Browsing is open to any
// signed-in account; posting and managing listings is provider work.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeListing)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.Log, models.RoleProvider))
		r.Post("/", h.HandleCreate)
		r.Get("/my", h.ServeMine)
		r.Put("/{id}", h.HandleUpdate)
		r.Put("/{id}/collected", h.HandleMarkCollected)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
