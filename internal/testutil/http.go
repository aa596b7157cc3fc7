package testutil

import (
	"context"
	"net/http"

	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// WithPrincipal attaches the account to the request context as the
// authenticated caller, the way auth.RequireSignedIn would.
func WithPrincipal(r *http.Request, a models.Account) *http.Request {
	p := &auth.Principal{ID: a.ID.Hex(), Name: a.Name, Role: a.Role}
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}
