// internal/app/features/accounts/handler.go
package accounts

import (
	"net/http"

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
)

// Handler owns the signed-in account's profile operations.
type Handler struct {
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: userstore.New(db)}
}

// ServeMe returns the caller's own account.
// GET /api/users/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	acct, err := h.Users.GetByID(ctx, uid)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("account not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, acct)
}

type updateProfileRequest struct {
	Name             *string `json:"name,omitempty"`
	Contact          *string `json:"contact,omitempty"`
	OrganizationType *string `json:"organizationType,omitempty"`
	ProfilePicture   *string `json:"profilePicture,omitempty"`
}

// HandleUpdateMe applies a partial profile update. Role and email are
// not updatable: role is immutable by design and email is the login key.
// PUT /api/users/me
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateProfileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := userstore.ProfileUpdate{ProfilePicture: req.ProfilePicture}
	if req.Name != nil {
		name := normalize.Name(sanitize.Text(*req.Name))
		if name == "" {
			httpjson.Error(w, h.Log, apperr.Validation("name cannot be empty"))
			return
		}
		upd.Name = &name
	}
	if req.Contact != nil {
		contact := sanitize.Text(*req.Contact)
		upd.Contact = &contact
	}
	if req.OrganizationType != nil {
		orgType := normalize.Category(*req.OrganizationType)
		if !models.ValidOrganizationType(orgType) {
			httpjson.Error(w, h.Log, apperr.Validation("unknown organization type"))
			return
		}
		upd.OrganizationType = &orgType
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	acct, err := h.Users.UpdateProfile(ctx, uid, upd)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, acct)
}

type updateLocationRequest struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// HandleUpdateLocation replaces the account's geographic point.
// PUT /api/users/me/location
func (h *Handler) HandleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateLocationRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Longitude == nil || req.Latitude == nil {
		httpjson.Error(w, h.Log, apperr.Validation("longitude and latitude are required"))
		return
	}
	if *req.Longitude < -180 || *req.Longitude > 180 || *req.Latitude < -90 || *req.Latitude > 90 {
		httpjson.Error(w, h.Log, apperr.Validation("coordinates out of range"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	acct, err := h.Users.UpdateLocation(ctx, uid, *req.Longitude, *req.Latitude)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.Respond(w, http.StatusOK, acct)
}

// HandleDeleteMe deletes the account and cascades to its listings,
// claims on those listings, its own claims, pickups, reviews, and
// notifications.
// DELETE /api/users/me
func (h *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Users.DeleteCascade(ctx, uid); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("account not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("account deleted", zap.String("account_id", uid.Hex()))
	httpjson.Message(w, http.StatusOK, "account deleted")
}
