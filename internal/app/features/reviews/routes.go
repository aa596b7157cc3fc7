// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the reviews subrouter. Provider read endpoints are
// public; authoring is collector work.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Get("/provider/{id}", h.ServeForProvider)
	r.Get("/provider/{id}/average", h.ServeProviderAverage)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireSignedIn)
		r.Use(auth.RequireRole(h.Log, models.RoleCollector))
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
