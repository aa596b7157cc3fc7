// internal/app/features/authn/handler.go
package authn

import (
	"net/http"
	"strings"

	userstore "github.com/farmcycle/farmcycle/internal/app/store/users"
	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/app/system/normalize"
	"github.com/farmcycle/farmcycle/internal/app/system/sanitize"
	"github.com/farmcycle/farmcycle/internal/app/system/timeouts"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler owns registration and login.
type Handler struct {
	Log    *zap.Logger
	Users  *userstore.Store
	Tokens *auth.Manager
}

// NewHandler constructs an authn Handler bound to the given database
// and token manager.
func NewHandler(db *mongo.Database, tokens *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Users:  userstore.New(db),
		Tokens: tokens,
	}
}

// tokenResponse is returned by both register and login.
type tokenResponse struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	OrganizationType string `json:"organizationType"`
	Contact          string `json:"contact,omitempty"`
}

// HandleRegister creates an account and issues its first token.
// POST /api/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Name = normalize.Name(sanitize.Text(req.Name))
	req.Email = normalize.Email(req.Email)
	req.Role = normalize.Role(req.Role)
	req.OrganizationType = normalize.Category(req.OrganizationType)

	if err := validateRegistration(req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	acct, err := h.Users.Create(ctx, models.Account{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(hash),
		Role:             req.Role,
		OrganizationType: req.OrganizationType,
		Contact:          sanitize.Text(req.Contact),
	})
	if err == userstore.ErrEmailTaken {
		httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	token, err := h.Tokens.IssueToken(acct)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("account registered",
		zap.String("account_id", acct.ID.Hex()),
		zap.String("role", acct.Role))
	httpjson.Respond(w, http.StatusCreated, tokenResponse{Token: token, User: acct})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a token.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, h.Log, apperr.Validation("email and password are required"))
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	acct, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.Authentication("invalid email or password"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, h.Log, apperr.Authentication("invalid email or password"))
		return
	}

	token, err := h.Tokens.IssueToken(acct)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, tokenResponse{Token: token, User: acct})
}

func validateRegistration(req registerRequest) error {
	switch {
	case req.Name == "":
		return apperr.Validation("name is required")
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return apperr.Validation("a valid email is required")
	case len(req.Password) < 8:
		return apperr.Validation("password must be at least 8 characters")
	case req.Role != models.RoleProvider && req.Role != models.RoleCollector:
		return apperr.Validation("role must be provider or collector")
	case !models.ValidOrganizationType(req.OrganizationType):
		return apperr.Validation("unknown organization type")
	}
	return nil
}
