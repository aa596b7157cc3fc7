// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/farmcycle/farmcycle/internal/app/features/accounts"
	authnfeature "github.com/farmcycle/farmcycle/internal/app/features/authn"
	claimsfeature "github.com/farmcycle/farmcycle/internal/app/features/claims"
	healthfeature "github.com/farmcycle/farmcycle/internal/app/features/health"
	listingsfeature "github.com/farmcycle/farmcycle/internal/app/features/listings"
	notificationsfeature "github.com/farmcycle/farmcycle/internal/app/features/notifications"
	pickupsfeature "github.com/farmcycle/farmcycle/internal/app/features/pickups"
	reviewsfeature "github.com/farmcycle/farmcycle/internal/app/features/reviews"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. FarmCycle builds the token manager,
// instruments the router, and mounts the JSON API under /api with the
// health and metrics endpoints alongside it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewManager(appCfg.JWTSecret, appCfg.JWTTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		authnHandler := authnfeature.NewHandler(db, tokens, logger)
		r.Mount("/auth", authnfeature.Routes(authnHandler))

		accountsHandler := accountsfeature.NewHandler(db, logger)
		r.Mount("/users", accountsfeature.Routes(accountsHandler, tokens))

		listingsHandler := listingsfeature.NewHandler(db, logger)
		r.Mount("/listings", listingsfeature.Routes(listingsHandler, tokens))

		claimsHandler := claimsfeature.NewHandler(db, logger)
		r.Mount("/claims", claimsfeature.Routes(claimsHandler, tokens))

		pickupsHandler := pickupsfeature.NewHandler(db, logger)
		r.Mount("/pickups", pickupsfeature.Routes(pickupsHandler, tokens))

		reviewsHandler := reviewsfeature.NewHandler(db, logger)
		r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, tokens))

		notificationsHandler := notificationsfeature.NewHandler(db, logger)
		r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, tokens))
	})

	return r, nil
}
