// internal/app/features/authn/routes.go
package authn

import "github.com/go-chi/chi/v5"

// Routes returns the public authentication subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	return r
}
