// internal/app/features/claims/routes.go
package claims

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the claims subrouter. Collector and provider sides get
// separate role gates; the decision endpoints additionally check listing
// ownership in the handler.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireSignedIn)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.Log, models.RoleCollector))
		r.Post("/{listingId}/claim", h.HandleCreate)
		r.Get("/my/claims", h.ServeMine)
		r.Delete("/{id}/cancel", h.HandleCancel)
		r.Put("/{id}/collected", h.HandleMarkCollected)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.Log, models.RoleProvider))
		r.Get("/provider/claims", h.ServeReceived)
		r.Get("/listing/{listingId}", h.ServeForListing)
		r.Put("/{id}/approve", h.HandleApprove)
		r.Put("/{id}/reject", h.HandleReject)
	})

	return r
}
