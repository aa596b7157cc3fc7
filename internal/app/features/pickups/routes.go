// internal/app/features/pickups/routes.go
package pickups

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the pickups subrouter. Scheduling is collector work;
// completion is gated to the provider inside the handler; cancel and
// listing are open to either participant.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireSignedIn)

	r.Get("/my", h.ServeMine)
	r.Put("/{id}/complete", h.HandleComplete)
	r.Put("/{id}/cancel", h.HandleCancel)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.Log, models.RoleCollector))
		r.Post("/", h.HandleSchedule)
	})

	return r
}
