// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the profile subrouter. Everything here requires a
// signed-in caller.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireSignedIn)

	r.Get("/me", h.ServeMe)
	r.Put("/me", h.HandleUpdateMe)
	r.Put("/me/location", h.HandleUpdateLocation)
	r.Delete("/me", h.HandleDeleteMe)

	return r
}
