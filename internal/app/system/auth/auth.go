// Package auth issues and verifies the bearer tokens that authenticate
// every API request, and carries the authenticated Principal through the
// request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Principal is the authenticated caller decoded from a bearer token.
type Principal struct {
	ID   string // account ObjectID hex
	Name string
	Role string // provider | collector
}

type ctxKey struct{}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the principal from ctx, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok
}

// CurrentUser returns the principal attached to the request.
func CurrentUser(r *http.Request) (*Principal, bool) {
	return FromContext(r.Context())
}

// CallerID returns the authenticated caller's account ObjectID. Routes
// behind RequireSignedIn always have one; anything else is a
// misconfigured route and surfaces as 401.
func CallerID(r *http.Request) (primitive.ObjectID, error) {
	p, ok := CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, apperr.Authentication("missing bearer token")
	}
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return primitive.NilObjectID, apperr.Authentication("invalid token subject")
	}
	return oid, nil
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewManager builds a token manager. The secret must be non-empty;
// short secrets are accepted with a warning so local dev still works.
func NewManager(secret string, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, log: logger}, nil
}

type tokenClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken mints a signed token for the account.
func (m *Manager) IssueToken(a models.Account) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Name: a.Name,
		Role: a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token string, returning the principal.
func (m *Manager) Verify(tokenStr string) (*Principal, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperr.Authentication("invalid or expired token")
	}
	c, ok := tok.Claims.(*tokenClaims)
	if !ok || c.Subject == "" || c.Role == "" {
		return nil, apperr.Authentication("invalid token claims")
	}
	return &Principal{ID: c.Subject, Name: c.Name, Role: strings.ToLower(c.Role)}, nil
}

// RequireSignedIn rejects requests without a valid Bearer token and
// attaches the principal to the context for downstream handlers.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpjson.Error(w, m.log, apperr.Authentication("missing bearer token"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpjson.Error(w, m.log, apperr.Authentication("invalid authorization header"))
			return
		}
		p, err := m.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			httpjson.Error(w, m.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireRole gates a route to the given roles. It assumes
// RequireSignedIn ran earlier in the chain.
func RequireRole(log *zap.Logger, allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, log, apperr.Authentication("missing bearer token"))
				return
			}
			if _, has := set[p.Role]; !has {
				httpjson.Error(w, log, apperr.Authorization("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
