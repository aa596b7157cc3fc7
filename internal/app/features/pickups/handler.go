// internal/app/features/pickups/handler.go
package pickups

import (
	"net/http"
	"strings"

	claimstore "github.com/farmcycle/farmcycle/internal/app/store/claims"
	listingstore "github.com/farmcycle/farmcycle/internal/app/store/listings"
	notificationstore "github.com/farmcycle/farmcycle/internal/app/store/notifications"
	pickupstore "github.com/farmcycle/farmcycle/internal/app/store/pickups"
	"github.com/farmcycle/farmcycle/internal/app/system/apperr"
	"github.com/farmcycle/farmcycle/internal/app/system/auth"
	"github.com/farmcycle/farmcycle/internal/app/system/httpjson"
	"github.com/farmcycle/farmcycle/internal/app/system/timeouts"
	"github.com/farmcycle/farmcycle/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns pickup scheduling and its lifecycle.
type Handler struct {
	Log           *zap.Logger
	Pickups       *pickupstore.Store
	Claims        *claimstore.Store
	Listings      *listingstore.Store
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		Pickups:       pickupstore.New(db),
		Claims:        claimstore.New(db),
		Listings:      listingstore.New(db),
		Notifications: notificationstore.New(db),
	}
}

func (h *Handler) notify(r *http.Request, recipientID primitive.ObjectID, message string) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()
	if _, err := h.Notifications.Create(ctx, recipientID, message); err != nil {
		h.Log.Warn("notification write failed",
			zap.String("recipient_id", recipientID.Hex()),
			zap.Error(err))
	}
}

type scheduleRequest struct {
	WasteID       string `json:"wasteId"`
	ScheduledTime string `json:"scheduledTime"`
}

// HandleSchedule creates a pickup against the caller's accepted claim on
// the listing, notifying the provider. One pickup per claim.
// POST /api/pickups  (collector only)
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req scheduleRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	listingID, err := primitive.ObjectIDFromHex(req.WasteID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("invalid waste listing id"))
		return
	}
	// ScheduledTime is opaque text agreed between the parties; it is
	// stored and echoed in notifications as-is.
	if strings.TrimSpace(req.ScheduledTime) == "" {
		httpjson.Error(w, h.Log, apperr.Validation("scheduledTime is required"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	claim, err := h.Claims.FindAccepted(ctx, listingID, uid)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("no accepted claim on this listing"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	listing, err := h.Listings.GetByID(ctx, claim.ListingID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apperr.NotFound("listing not found"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	pickup, err := h.Pickups.Create(ctx, models.Pickup{
		ClaimID:       claim.ID,
		ListingID:     listing.ID,
		CollectorID:   uid,
		ProviderID:    listing.CreatedBy,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		if err == pickupstore.ErrAlreadyScheduled {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.notify(r, listing.CreatedBy, "Pickup scheduled for \""+listing.Title+"\" at "+req.ScheduledTime)

	h.Log.Info("pickup scheduled",
		zap.String("pickup_id", pickup.ID.Hex()),
		zap.String("claim_id", claim.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, pickup)
}

// HandleComplete marks a scheduled pickup completed. Only the pickup's
// provider confirms completion.
// PUT /api/pickups/{id}/complete  (pickup's provider only)
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	pickup, err := h.load(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if pickup.ProviderID != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("only the provider can complete this pickup"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Pickups.Complete(ctx, pickup.ID); err != nil {
		if err == pickupstore.ErrNotScheduled {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("pickup completed", zap.String("pickup_id", pickup.ID.Hex()))
	httpjson.Message(w, http.StatusOK, "pickup completed")
}

// HandleCancel cancels a scheduled pickup. Either participant may back
// out.
// PUT /api/pickups/{id}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	pickup, err := h.load(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if pickup.ProviderID != uid && pickup.CollectorID != uid {
		httpjson.Error(w, h.Log, apperr.Authorization("you are not part of this pickup"))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Pickups.Cancel(ctx, pickup.ID); err != nil {
		if err == pickupstore.ErrNotScheduled {
			httpjson.Error(w, h.Log, apperr.Conflict(err.Error()))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("pickup cancelled", zap.String("pickup_id", pickup.ID.Hex()))
	httpjson.Message(w, http.StatusOK, "pickup cancelled")
}

// ServeMine returns the pickups the caller participates in, on either
// side.
// GET /api/pickups/my
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid, err := auth.CallerID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	pickups, err := h.Pickups.FindByParticipant(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if pickups == nil {
		pickups = []models.Pickup{}
	}
	httpjson.Respond(w, http.StatusOK, pickups)
}

func (h *Handler) load(r *http.Request) (models.Pickup, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Pickup{}, apperr.Validation("invalid pickup id")
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	pickup, err := h.Pickups.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Pickup{}, apperr.NotFound("pickup not found")
	}
	if err != nil {
		return models.Pickup{}, apperr.Internal(err)
	}
	return pickup, nil
}
